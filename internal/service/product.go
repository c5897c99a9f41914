package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/tradepost/tradepost/internal/authz"
	"github.com/tradepost/tradepost/internal/metrics"
	"github.com/tradepost/tradepost/internal/model"
	"github.com/tradepost/tradepost/internal/repository"
)

const maxTitleLength = 255

// ProductStore is the persistence contract the product service depends on.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, offset, limit int) ([]*model.Product, int64, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	SoftDeleteProduct(ctx context.Context, id string) error
	HardDeleteProduct(ctx context.Context, id string) error
}

// ProductService handles product business logic. Mutations on existing
// products go through the authorization engine; creation only requires
// an authenticated actor, who becomes the product's owner.
type ProductService struct {
	store   ProductStore
	metrics metrics.Recorder
}

// NewProductService creates a new ProductService.
func NewProductService(store ProductStore, recorder metrics.Recorder) *ProductService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ProductService{
		store:   store,
		metrics: recorder,
	}
}

// CreateProductInput defines input for creating a product.
type CreateProductInput struct {
	Title string
	Price decimal.Decimal
}

// CreateProduct creates a product owned by the acting account.
func (s *ProductService) CreateProduct(ctx context.Context, actor *model.AuthContext, input CreateProductInput) (*model.Product, error) {
	if err := validateProductFields(input.Title, input.Price); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:        ulid.Make().String(),
		Title:     input.Title,
		Price:     input.Price,
		CreatorID: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrTitleExists) {
			return nil, ErrTitleTaken
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.metrics.IncProductCreated()

	return product, nil
}

// GetProduct retrieves a single active product.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListProductsOutput is a page of products plus pagination info.
type ListProductsOutput struct {
	Products []*model.Product
	Page     int
	Limit    int
	Total    int64
}

// ListProducts retrieves an offset-paginated page of active products.
func (s *ProductService) ListProducts(ctx context.Context, page, limit int) (*ListProductsOutput, error) {
	page, limit = clampPage(page, limit)

	products, total, err := s.store.ListProducts(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &ListProductsOutput{
		Products: products,
		Page:     page,
		Limit:    limit,
		Total:    total,
	}, nil
}

// UpdateProductInput defines input for updating a product. Nil fields
// are left untouched.
type UpdateProductInput struct {
	Title *string
	Price *decimal.Decimal
}

// UpdateProduct updates a product after consulting the authorization
// engine with the product's ownership.
func (s *ProductService) UpdateProduct(ctx context.Context, actor *model.AuthContext, id string, input UpdateProductInput) (*model.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := authz.Evaluate(authz.Request{
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Action:    authz.ActionUpdate,
		Resource: authz.Resource{
			Kind:    authz.KindProduct,
			ID:      product.ID,
			OwnerID: product.CreatorID,
		},
	})
	if !decision.Allowed {
		s.metrics.IncAuthzDenied(decision.Rule)
		return nil, ErrForbidden
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if err := validateProductFields(product.Title, product.Price); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrTitleExists) {
			return nil, ErrTitleTaken
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.metrics.IncProductUpdated()

	return product, nil
}

// DeleteProduct deletes a product. The authorization engine decides
// both permission and whether the delete lands hard or soft. Setting
// permanent asks for row removal explicitly, admin only.
func (s *ProductService) DeleteProduct(ctx context.Context, actor *model.AuthContext, id string, permanent bool) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	action := authz.ActionDelete
	if permanent {
		action = authz.ActionHardDelete
	}

	decision := authz.Evaluate(authz.Request{
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Action:    action,
		Resource: authz.Resource{
			Kind:    authz.KindProduct,
			ID:      product.ID,
			OwnerID: product.CreatorID,
		},
	})
	if !decision.Allowed {
		s.metrics.IncAuthzDenied(decision.Rule)
		return ErrForbidden
	}

	if decision.DeleteMode == authz.DeleteHard {
		err = s.store.HardDeleteProduct(ctx, id)
	} else {
		err = s.store.SoftDeleteProduct(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.metrics.IncProductDeleted()

	return nil
}

// validateProductFields checks title and price before any I/O.
func validateProductFields(title string, price decimal.Decimal) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLength)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}
