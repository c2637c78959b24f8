package order

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
	"storefront/internal/service/checkout"
)

// Service materializes completed payment sessions into orders, exactly
// once per external session id.
type Service struct {
	orders orderRepo
	carts  cartRepo
	logger *log.Logger
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByExternalSessionID(ctx context.Context, sessionID string) (*domain.Order, error)
}

type cartRepo interface {
	GetByOwner(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	ListResolvedLines(ctx context.Context, cartID string) ([]domain.ResolvedCartLine, error)
	ClearLines(ctx context.Context, cartID string) error
}

func New(orders orderRepo, carts cartRepo, logger *log.Logger) *Service {
	return &Service{orders: orders, carts: carts, logger: logger}
}

// MaterializeCompletedSession turns a verified "checkout completed"
// event into a persisted order and clears the cart behind it. Redelivery
// of the same session id returns the order created the first time; the
// storage layer's uniqueness constraint closes the race between
// concurrent deliveries. An empty or missing cart is a reported error:
// it means the cart was lost between session creation and completion.
func (s *Service) MaterializeCompletedSession(ctx context.Context, sessionID string, owner domain.Owner) (*domain.Order, error) {
	// Redelivery after the cart was cleared must read as success, so
	// the duplicate check comes before the cart lookup.
	if existing, err := s.orders.GetByExternalSessionID(ctx, sessionID); err == nil {
		s.logger.Printf("session %s already materialized as order %s", sessionID, existing.ID)
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	cart, err := s.carts.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no cart for session %s", domain.ErrEmptyCart, sessionID)
		}
		return nil, err
	}
	lines, err := s.carts.ListResolvedLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: session %s", domain.ErrEmptyCart, sessionID)
	}

	totals := checkout.CalculateTotals(lines)

	in := orderrepo.CreateOrderInput{
		Owner:             owner,
		ExternalSessionID: sessionID,
		Status:            domain.OrderPaid,
		TotalCents:        totals.TotalCents,
	}
	for _, line := range lines {
		in.Lines = append(in.Lines, orderrepo.LineInput{
			VariantID:            line.VariantID,
			Quantity:             line.Quantity,
			PriceAtPurchaseCents: line.EffectivePriceCents(),
		})
	}

	created, err := s.orders.Create(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// A concurrent delivery won the insert.
			return s.orders.GetByExternalSessionID(ctx, sessionID)
		}
		return nil, err
	}

	if err := s.carts.ClearLines(ctx, cart.ID); err != nil {
		// The order exists; a lingering cart is recoverable, losing the
		// order is not.
		s.logger.Printf("order %s created but clearing cart %s failed: %v", created.ID, cart.ID, err)
	}

	s.logger.Printf("order %s created for session %s (%d cents)", created.ID, sessionID, created.TotalCents)
	return created, nil
}

// RecordFailedPayment logs a failed payment event. No state changes.
func (s *Service) RecordFailedPayment(paymentIntentID string) {
	s.logger.Printf("payment failed: %s", paymentIntentID)
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// GetBySessionID returns the order created for an external session.
func (s *Service) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return s.orders.GetByExternalSessionID(ctx, sessionID)
}
