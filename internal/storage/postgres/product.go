package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/gadget-catalog/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, title, category, image, images, color, listed_at, price, details
		FROM products ORDER BY position, id`

	upsertProductSQL = `INSERT INTO products (id, title, category, image, images, color, listed_at, price, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			image = EXCLUDED.image,
			images = EXCLUDED.images,
			color = EXCLUDED.color,
			listed_at = EXCLUDED.listed_at,
			price = EXCLUDED.price,
			details = EXCLUDED.details`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
// Catalog order is insertion order.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products in catalog order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// Upsert inserts or updates products in a single batch. Existing rows keep
// their catalog position.
func (r *ProductRepository) Upsert(ctx context.Context, products []product.Product) error {
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(upsertProductSQL,
			p.ID, p.Title, p.Category, p.Image, nonNil(p.Images), p.Color, p.Date, p.Price, nonNil(p.Details),
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for _, p := range products {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upserting product %d: %w", p.ID, err)
		}
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Category, &p.Image, &p.Images, &p.Color, &p.Date, &p.Price, &p.Details,
	)
	p.Date = p.Date.UTC()
	return p, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
