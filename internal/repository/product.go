package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tradepost/tradepost/internal/model"
)

// Common errors for product repository operations.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrTitleExists     = errors.New("title already exists")
)

const productColumns = `id, title, price, creator_id, deleted_at, created_at, updated_at`

// CreateProduct inserts a new product into the database.
func (r *Repository) CreateProduct(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, title, price, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Title,
		product.Price,
		product.CreatorID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTitleExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetProductByID retrieves an active product by its ID.
func (r *Repository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}

	return product, nil
}

// ListProducts retrieves a page of active products ordered by creation
// time, plus the total active count for the pagination envelope.
func (r *Repository) ListProducts(ctx context.Context, offset, limit int) ([]*model.Product, int64, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		product, err := scanProductFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct updates a product's mutable fields.
func (r *Repository) UpdateProduct(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET title = $2, price = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Title,
		product.Price,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTitleExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// SoftDeleteProduct marks a product as deleted.
// Idempotent: repeating the call keeps the original deletion timestamp.
func (r *Repository) SoftDeleteProduct(ctx context.Context, id string) error {
	query := `
		UPDATE products
		SET deleted_at = COALESCE(deleted_at, NOW())
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// HardDeleteProduct physically removes a product row.
func (r *Repository) HardDeleteProduct(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to hard delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// scanProduct scans a product from a single-row query.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var product model.Product
	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Price,
		&product.CreatorID,
		&product.DeletedAt,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// scanProductFromRows scans a product from a multi-row result set.
func scanProductFromRows(rows pgx.Rows) (*model.Product, error) {
	var product model.Product
	err := rows.Scan(
		&product.ID,
		&product.Title,
		&product.Price,
		&product.CreatorID,
		&product.DeletedAt,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
