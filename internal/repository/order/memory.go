package order

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

// MemoryRepo backs local development and tests. It enforces the same
// external-session uniqueness the postgres schema does.
type MemoryRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Order
	bySession map[string]string // external session id -> order id
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{
		byID:      make(map[string]*domain.Order),
		bySession: make(map[string]string),
	}
}

func (r *MemoryRepo) Create(_ context.Context, in CreateOrderInput) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySession[in.ExternalSessionID]; exists {
		return nil, domain.ErrAlreadyExists
	}

	order := &domain.Order{
		ID:                uuid.NewString(),
		Owner:             in.Owner,
		ExternalSessionID: in.ExternalSessionID,
		Status:            in.Status,
		TotalCents:        in.TotalCents,
		CreatedAt:         time.Now().UTC(),
	}
	for _, line := range in.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ID:                   uuid.NewString(),
			OrderID:              order.ID,
			VariantID:            line.VariantID,
			Quantity:             line.Quantity,
			PriceAtPurchaseCents: line.PriceAtPurchaseCents,
		})
	}

	r.byID[order.ID] = order
	r.bySession[order.ExternalSessionID] = order.ID
	out := *order
	return &out, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *order
	return &out, nil
}

func (r *MemoryRepo) GetByExternalSessionID(_ context.Context, sessionID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.bySession[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *r.byID[id]
	return &out, nil
}
