package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product listing entity.
type Product struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	CreatorID string          `json:"creator_id"`
	DeletedAt *time.Time      `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsDeleted returns true if the product has been soft-deleted.
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}
