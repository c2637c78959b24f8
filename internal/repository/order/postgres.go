package order

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var userID, guestID *string
	if id, ok := in.Owner.UserID(); ok {
		userID = &id
	}
	if id, ok := in.Owner.GuestID(); ok {
		guestID = &id
	}

	var order domain.Order
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, guest_id, external_session_id, status, total_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, external_session_id, status, total_cents, created_at
`, userID, guestID, in.ExternalSessionID, string(in.Status), in.TotalCents).Scan(
		&order.ID,
		&order.ExternalSessionID,
		&order.Status,
		&order.TotalCents,
		&order.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	order.Owner = in.Owner

	for _, line := range in.Lines {
		var out domain.OrderLine
		err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, variant_id, quantity, price_at_purchase_cents)
VALUES ($1, $2, $3, $4)
RETURNING id::text, order_id::text, variant_id::text, quantity, price_at_purchase_cents
`, order.ID, line.VariantID, line.Quantity, line.PriceAtPurchaseCents).Scan(
			&out.ID,
			&out.OrderID,
			&out.VariantID,
			&out.Quantity,
			&out.PriceAtPurchaseCents,
		)
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, out)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, guest_id, external_session_id, status, total_cents, created_at
FROM orders
WHERE id = $1
`
	return r.fetchOrder(ctx, q, id)
}

func (r *postgresRepo) GetByExternalSessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, guest_id, external_session_id, status, total_cents, created_at
FROM orders
WHERE external_session_id = $1
`
	return r.fetchOrder(ctx, q, sessionID)
}

func (r *postgresRepo) fetchOrder(ctx context.Context, orderQuery string, arg any) (*domain.Order, error) {
	var order domain.Order
	var userID *string
	var guestID *string
	err := r.pool.QueryRow(ctx, orderQuery, arg).Scan(
		&order.ID,
		&userID,
		&guestID,
		&order.ExternalSessionID,
		&order.Status,
		&order.TotalCents,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	switch {
	case userID != nil:
		order.Owner = domain.UserOwner(*userID)
	case guestID != nil:
		order.Owner = domain.GuestOwner(*guestID)
	}

	const linesQuery = `
SELECT ol.id::text, ol.order_id::text, ol.variant_id::text, ol.quantity, ol.price_at_purchase_cents,
       p.name, p.image_url, v.color, v.size
FROM order_lines ol
JOIN variants v ON v.id = ol.variant_id
JOIN products p ON p.id = v.product_id
WHERE ol.order_id = $1
ORDER BY ol.id
`
	rows, err := r.pool.Query(ctx, linesQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.VariantID,
			&line.Quantity,
			&line.PriceAtPurchaseCents,
			&line.ProductName,
			&line.ProductImage,
			&line.Color,
			&line.Size,
		); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &order, nil
}
