package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/payment"
)

// Metadata keys echoed back in the provider's completion event.
const (
	MetaCartID  = "cart_id"
	MetaUserID  = "user_id"
	MetaGuestID = "guest_id"
)

// Service builds payment-provider checkout sessions from the caller's
// cart.
type Service struct {
	carts      cartRepo
	sessions   sessionCreator
	appBaseURL string
}

type cartRepo interface {
	GetByOwner(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	ListResolvedLines(ctx context.Context, cartID string) ([]domain.ResolvedCartLine, error)
}

type sessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params payment.SessionParams) (*payment.Session, error)
}

func New(carts cartRepo, sessions sessionCreator, appBaseURL string) *Service {
	return &Service{
		carts:      carts,
		sessions:   sessions,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

// CreateSession reads the owner's cart, computes totals and opens a
// hosted checkout session. The totals here and the ones the
// materializer computes later come from the same pure calculator, so a
// cart left unchanged between the two calls prices identically.
func (s *Service) CreateSession(ctx context.Context, owner domain.Owner, customerEmail string) (*payment.Session, error) {
	cart, err := s.carts.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	lines, err := s.carts.ListResolvedLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	totals := CalculateTotals(lines)

	items := make([]payment.CheckoutItem, 0, len(lines)+2)
	for _, line := range lines {
		items = append(items, payment.CheckoutItem{
			Name:            line.ProductName,
			Description:     lineDescription(line),
			ImageURL:        line.ProductImage,
			UnitAmountCents: line.EffectivePriceCents(),
			Quantity:        line.Quantity,
		})
	}
	shippingDesc := "Standard shipping"
	if totals.ShippingCents == 0 {
		shippingDesc = "Free shipping"
	}
	items = append(items,
		payment.CheckoutItem{Name: "Shipping", Description: shippingDesc, UnitAmountCents: totals.ShippingCents, Quantity: 1},
		payment.CheckoutItem{Name: "Tax", Description: "Sales tax (8%)", UnitAmountCents: totals.TaxCents, Quantity: 1},
	)

	metadata := map[string]string{MetaCartID: cart.ID}
	if id, ok := owner.UserID(); ok {
		metadata[MetaUserID] = id
	}
	if id, ok := owner.GuestID(); ok {
		metadata[MetaGuestID] = id
	}

	return s.sessions.CreateCheckoutSession(ctx, payment.SessionParams{
		Items:         items,
		Currency:      "usd",
		SuccessURL:    s.appBaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.appBaseURL + "/cart",
		CustomerEmail: customerEmail,
		Metadata:      metadata,
	})
}

func lineDescription(line domain.ResolvedCartLine) string {
	switch {
	case line.Color != "" && line.Size != "":
		return fmt.Sprintf("%s • Size %s", line.Color, line.Size)
	case line.Color != "":
		return line.Color
	case line.Size != "":
		return "Size " + line.Size
	}
	return ""
}
