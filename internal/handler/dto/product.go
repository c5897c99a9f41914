package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradepost/tradepost/internal/model"
)

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// UpdateProductRequest represents the request body for updating a product.
// Nil fields are left untouched.
type UpdateProductRequest struct {
	Title *string          `json:"title,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	CreatorID string          `json:"creator_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse represents a paginated list of products.
type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// ToProductResponse converts a Product model to ProductResponse DTO.
func ToProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Title:     p.Title,
		Price:     p.Price,
		CreatorID: p.CreatorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToProductListResponse converts a page of products into the list envelope.
func ToProductListResponse(products []*model.Product, page, limit int, total int64) ProductListResponse {
	data := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, ToProductResponse(p))
	}
	return ProductListResponse{
		Data: data,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}
}
