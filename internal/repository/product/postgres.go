package product

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

func (r *postgresRepo) List(ctx context.Context) ([]Detail, error) {
	const q = `
SELECT id::text, name, description, image_url, created_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Detail
	index := make(map[string]int)
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.ImageURL, &d.CreatedAt); err != nil {
			return nil, err
		}
		index[d.ID] = len(result)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	const vq = `
SELECT id::text, product_id::text, sku, color, size, price_cents, sale_price_cents, in_stock, created_at
FROM variants
ORDER BY created_at
`
	vrows, err := r.pool.Query(ctx, vq)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()

	for vrows.Next() {
		var v domain.Variant
		if err := vrows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Color, &v.Size, &v.PriceCents, &v.SalePriceCents, &v.InStock, &v.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[v.ProductID]; ok {
			result[i].Variants = append(result[i].Variants, v)
		}
	}
	if err := vrows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Detail, error) {
	const q = `
SELECT id::text, name, description, image_url, created_at
FROM products
WHERE id = $1
`
	var d Detail
	err := r.pool.QueryRow(ctx, q, id).Scan(&d.ID, &d.Name, &d.Description, &d.ImageURL, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const vq = `
SELECT id::text, product_id::text, sku, color, size, price_cents, sale_price_cents, in_stock, created_at
FROM variants
WHERE product_id = $1
ORDER BY created_at
`
	rows, err := r.pool.Query(ctx, vq, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Color, &v.Size, &v.PriceCents, &v.SalePriceCents, &v.InStock, &v.CreatedAt); err != nil {
			return nil, err
		}
		d.Variants = append(d.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}
