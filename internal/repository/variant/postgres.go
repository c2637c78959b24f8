package variant

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Variant, error) {
	const q = `
SELECT id::text, product_id::text, sku, color, size, price_cents, sale_price_cents, in_stock, created_at
FROM variants
WHERE id = $1
`
	var v domain.Variant
	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&v.ID,
		&v.ProductID,
		&v.SKU,
		&v.Color,
		&v.Size,
		&v.PriceCents,
		&v.SalePriceCents,
		&v.InStock,
		&v.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) GetDetail(ctx context.Context, id string) (*Detail, error) {
	const q = `
SELECT v.id::text, v.product_id::text, v.sku, v.color, v.size, v.price_cents, v.sale_price_cents, v.in_stock, v.created_at,
       p.name, p.image_url
FROM variants v
JOIN products p ON p.id = v.product_id
WHERE v.id = $1
`
	var d Detail
	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&d.ID,
		&d.ProductID,
		&d.SKU,
		&d.Color,
		&d.Size,
		&d.PriceCents,
		&d.SalePriceCents,
		&d.InStock,
		&d.CreatedAt,
		&d.ProductName,
		&d.ProductImage,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
