package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradepost/tradepost/internal/model"
	"github.com/tradepost/tradepost/internal/repository"
)

// fakeProductStore is an in-memory ProductStore for service tests.
type fakeProductStore struct {
	mu       sync.Mutex
	products map[string]*model.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[string]*model.Product)}
}

func (f *fakeProductStore) CreateProduct(ctx context.Context, product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.products {
		if p.Title == product.Title {
			return repository.ErrTitleExists
		}
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductStore) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok || p.IsDeleted() {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) ListProducts(ctx context.Context, offset, limit int) ([]*model.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var active []*model.Product
	for _, p := range f.products {
		if !p.IsDeleted() {
			cp := *p
			active = append(active, &cp)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	total := int64(len(active))
	if offset >= len(active) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], total, nil
}

func (f *fakeProductStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.products[product.ID]
	if !ok || existing.IsDeleted() {
		return repository.ErrProductNotFound
	}
	for _, p := range f.products {
		if p.ID != product.ID && p.Title == product.Title {
			return repository.ErrTitleExists
		}
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductStore) SoftDeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return nil
	}
	if p.DeletedAt == nil {
		now := time.Now().UTC()
		p.DeletedAt = &now
	}
	return nil
}

func (f *fakeProductStore) HardDeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) raw(id string) *model.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id]
}

func userActor(id string) *model.AuthContext {
	return &model.AuthContext{UserID: id, Role: model.RoleUser}
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	svc := NewProductService(newFakeProductStore(), nil)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, userActor("user-1"), CreateProductInput{
		Title: "Vintage Lamp",
		Price: decimal.NewFromFloat(19.99),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.CreatorID != "user-1" {
		t.Errorf("creator = %q, want %q", product.CreatorID, "user-1")
	}

	// Duplicate titles are rejected
	_, err = svc.CreateProduct(ctx, userActor("user-2"), CreateProductInput{
		Title: "Vintage Lamp",
		Price: decimal.NewFromInt(5),
	})
	if !errors.Is(err, ErrTitleTaken) {
		t.Errorf("err = %v, want ErrTitleTaken", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc := NewProductService(newFakeProductStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty title", CreateProductInput{Price: decimal.NewFromInt(1)}},
		{"negative price", CreateProductInput{Title: "Thing", Price: decimal.NewFromInt(-1)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateProduct(ctx, userActor("user-1"), tt.input); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	// Zero price is valid
	if _, err := svc.CreateProduct(ctx, userActor("user-1"), CreateProductInput{
		Title: "Freebie",
		Price: decimal.Zero,
	}); err != nil {
		t.Errorf("zero price: %v", err)
	}
}

func TestUpdateProductOwnership(t *testing.T) {
	t.Parallel()

	svc := NewProductService(newFakeProductStore(), nil)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, userActor("owner-1"), CreateProductInput{
		Title: "Vintage Lamp",
		Price: decimal.NewFromFloat(19.99),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	newTitle := "Restored Lamp"

	// Owner may update
	updated, err := svc.UpdateProduct(ctx, userActor("owner-1"), product.ID, UpdateProductInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q, want %q", updated.Title, newTitle)
	}

	// A stranger may not
	if _, err := svc.UpdateProduct(ctx, userActor("stranger"), product.ID, UpdateProductInput{Title: &newTitle}); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger update: err = %v, want ErrForbidden", err)
	}

	// A moderator may
	mod := &model.AuthContext{UserID: "mod-1", Role: model.RoleModerator}
	price := decimal.NewFromInt(25)
	if _, err := svc.UpdateProduct(ctx, mod, product.ID, UpdateProductInput{Price: &price}); err != nil {
		t.Errorf("moderator update: %v", err)
	}
}

func TestDeleteProductModes(t *testing.T) {
	t.Parallel()

	store := newFakeProductStore()
	svc := NewProductService(store, nil)
	ctx := context.Background()

	p1, err := svc.CreateProduct(ctx, userActor("owner-1"), CreateProductInput{
		Title: "Lamp", Price: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	p2, err := svc.CreateProduct(ctx, userActor("owner-1"), CreateProductInput{
		Title: "Chair", Price: decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// An owner may not request a permanent delete
	if err := svc.DeleteProduct(ctx, userActor("owner-1"), p1.ID, true); !errors.Is(err, ErrForbidden) {
		t.Errorf("owner permanent delete: err = %v, want ErrForbidden", err)
	}

	// Owner delete lands soft
	if err := svc.DeleteProduct(ctx, userActor("owner-1"), p1.ID, false); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if row := store.raw(p1.ID); row == nil || row.DeletedAt == nil {
		t.Error("owner delete must soft-delete the row")
	}

	// Admin delete lands hard, with or without the explicit flag
	admin := &model.AuthContext{UserID: "admin-1", Role: model.RoleAdmin}
	if err := svc.DeleteProduct(ctx, admin, p2.ID, true); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if store.raw(p2.ID) != nil {
		t.Error("admin delete must remove the row")
	}

	// A stranger cannot delete at all
	p3, err := svc.CreateProduct(ctx, userActor("owner-1"), CreateProductInput{
		Title: "Table", Price: decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := svc.DeleteProduct(ctx, userActor("stranger"), p3.ID, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger delete: err = %v, want ErrForbidden", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	svc := NewProductService(newFakeProductStore(), nil)

	if _, err := svc.GetProduct(context.Background(), "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
