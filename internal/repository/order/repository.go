package order

import (
	"context"

	"storefront/internal/domain"
)

// CreateOrderInput carries a new order and its frozen lines. The
// external session id is unique at the storage layer; a duplicate
// insert fails with domain.ErrAlreadyExists, which the materializer
// reinterprets as "already processed".
type CreateOrderInput struct {
	Owner             domain.Owner
	ExternalSessionID string
	Status            domain.OrderStatus
	TotalCents        int64
	Lines             []LineInput
}

type LineInput struct {
	VariantID            string
	Quantity             int
	PriceAtPurchaseCents int64
}

type Repository interface {
	// Create persists the order and its lines atomically.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByExternalSessionID(ctx context.Context, sessionID string) (*domain.Order, error)
}
