package cart

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

func ownerColumns(owner domain.Owner) (userID, guestID *string) {
	if id, ok := owner.UserID(); ok {
		userID = &id
	}
	if id, ok := owner.GuestID(); ok {
		guestID = &id
	}
	return userID, guestID
}

func ownerFromColumns(userID, guestID *string) domain.Owner {
	switch {
	case userID != nil:
		return domain.UserOwner(*userID)
	case guestID != nil:
		return domain.GuestOwner(*guestID)
	}
	return domain.NoOwner
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	cart, err := r.GetByOwner(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	userID, guestID := ownerColumns(owner)
	var q string
	var arg *string
	switch {
	case userID != nil:
		q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) WHERE user_id IS NOT NULL DO NOTHING
RETURNING id::text, user_id::text, guest_id, created_at, updated_at
`
		arg = userID
	case guestID != nil:
		q = `
INSERT INTO carts (guest_id)
VALUES ($1)
ON CONFLICT (guest_id) WHERE guest_id IS NOT NULL DO NOTHING
RETURNING id::text, user_id::text, guest_id, created_at, updated_at
`
		arg = guestID
	default:
		return nil, domain.ErrNotFound
	}

	cart, err = r.scanCart(r.pool.QueryRow(ctx, q, arg))
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	// Lost the insert race; the winner's cart is there to read.
	return r.GetByOwner(ctx, owner)
}

func (r *postgresRepo) GetByOwner(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	userID, guestID := ownerColumns(owner)
	var q string
	var arg *string
	switch {
	case userID != nil:
		q = `
SELECT id::text, user_id::text, guest_id, created_at, updated_at
FROM carts
WHERE user_id = $1
`
		arg = userID
	case guestID != nil:
		q = `
SELECT id::text, user_id::text, guest_id, created_at, updated_at
FROM carts
WHERE guest_id = $1
`
		arg = guestID
	default:
		return nil, domain.ErrNotFound
	}
	return r.scanCart(r.pool.QueryRow(ctx, q, arg))
}

func (r *postgresRepo) scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	var userID *string
	var guestID *string
	if err := row.Scan(&cart.ID, &userID, &guestID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.Owner = ownerFromColumns(userID, guestID)
	return &cart, nil
}

func (r *postgresRepo) ListResolvedLines(ctx context.Context, cartID string) ([]domain.ResolvedCartLine, error) {
	const q = `
SELECT cl.id::text, cl.variant_id::text, p.id::text, p.name, p.image_url,
       v.color, v.size, v.price_cents, v.sale_price_cents, cl.quantity, v.in_stock
FROM cart_lines cl
JOIN variants v ON v.id = cl.variant_id
JOIN products p ON p.id = v.product_id
WHERE cl.cart_id = $1
ORDER BY cl.id
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.ResolvedCartLine, 0)
	for rows.Next() {
		var line domain.ResolvedCartLine
		if err := rows.Scan(
			&line.ID,
			&line.VariantID,
			&line.ProductID,
			&line.ProductName,
			&line.ProductImage,
			&line.Color,
			&line.Size,
			&line.PriceCents,
			&line.SalePriceCents,
			&line.Quantity,
			&line.InStock,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) UpsertLine(ctx context.Context, cartID, variantID string, quantity int) (string, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var lineID string
	err = tx.QueryRow(ctx, `
INSERT INTO cart_lines (cart_id, variant_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, variant_id)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
RETURNING id::text
`, cartID, variantID, quantity).Scan(&lineID)
	if err != nil {
		return "", err
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return "", err
	}
	return lineID, tx.Commit(ctx)
}

func (r *postgresRepo) UpdateLineQuantity(ctx context.Context, lineID string, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE id = $2
`, quantity, lineID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteLine(ctx context.Context, lineID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1
`, lineID)
	return err
}

func (r *postgresRepo) ClearLines(ctx context.Context, cartID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1
`, cartID)
	return err
}

func (r *postgresRepo) MergeInto(ctx context.Context, srcCartID, dstCartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Upsert-by-delta keeps the merge convergent if it ever has to be
	// retried against a partially drained source cart.
	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, variant_id, quantity)
SELECT $2, variant_id, quantity
FROM cart_lines
WHERE cart_id = $1
ON CONFLICT (cart_id, variant_id)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
`, srcCartID, dstCartID); err != nil {
		return err
	}

	// Cascades to the source cart's lines.
	if _, err := tx.Exec(ctx, `
DELETE FROM carts
WHERE id = $1
`, srcCartID); err != nil {
		return err
	}

	if err := touchCart(ctx, tx, dstCartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
