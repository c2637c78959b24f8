package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type variantSeed struct {
	SKU            string
	Color          string
	Size           string
	PriceCents     int64
	SalePriceCents *int64
	InStock        int
}

type productSeed struct {
	Name        string
	Description string
	ImageURL    string
	Variants    []variantSeed
}

func cents(v int64) *int64 { return &v }

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Court Classic Sneaker",
			Description: "Leather low-top with a cushioned sole",
			ImageURL:    "/images/court-classic.jpg",
			Variants: []variantSeed{
				{SKU: "SNK-CC-WHT-9", Color: "White", Size: "9", PriceCents: 8999, InStock: 24},
				{SKU: "SNK-CC-WHT-10", Color: "White", Size: "10", PriceCents: 8999, InStock: 18},
				{SKU: "SNK-CC-BLK-9", Color: "Black", Size: "9", PriceCents: 8999, SalePriceCents: cents(6999), InStock: 7},
			},
		},
		{
			Name:        "Trail Runner Jacket",
			Description: "Windproof shell with zip pockets",
			ImageURL:    "/images/trail-runner.jpg",
			Variants: []variantSeed{
				{SKU: "JKT-TR-NVY-M", Color: "Navy", Size: "M", PriceCents: 12900, InStock: 11},
				{SKU: "JKT-TR-NVY-L", Color: "Navy", Size: "L", PriceCents: 12900, SalePriceCents: cents(9900), InStock: 3},
			},
		},
		{
			Name:        "Everyday Crew Sock 3-Pack",
			Description: "Combed cotton, reinforced heel",
			ImageURL:    "/images/crew-sock.jpg",
			Variants: []variantSeed{
				{SKU: "SCK-EC-GRY-OS", Color: "Grey", Size: "One Size", PriceCents: 1499, InStock: 120},
			},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const productQ = `
INSERT INTO products (name, description, image_url)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE
SET description = EXCLUDED.description,
    image_url = EXCLUDED.image_url
RETURNING id::text
`
	var productID string
	if err := pool.QueryRow(ctx, productQ, p.Name, p.Description, p.ImageURL).Scan(&productID); err != nil {
		return err
	}

	const variantQ = `
INSERT INTO variants (product_id, sku, color, size, price_cents, sale_price_cents, in_stock)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (sku) DO UPDATE
SET price_cents = EXCLUDED.price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    in_stock = EXCLUDED.in_stock
`
	for _, v := range p.Variants {
		if _, err := pool.Exec(ctx, variantQ, productID, v.SKU, v.Color, v.Size, v.PriceCents, v.SalePriceCents, v.InStock); err != nil {
			return err
		}
	}
	return nil
}
