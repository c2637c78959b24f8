package cart

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

// ErrQuantityOutOfRange rejects add/update quantities outside 1..10.
var ErrQuantityOutOfRange = fmt.Errorf("%w: quantity must be between %d and %d",
	domain.ErrValidation, domain.MinLineQuantity, domain.MaxLineQuantity)

// Service implements the cart store and the guest-to-user merge.
type Service struct {
	repo     cartRepo
	variants variantRepo
}

type cartRepo interface {
	GetOrCreate(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	GetByOwner(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	ListResolvedLines(ctx context.Context, cartID string) ([]domain.ResolvedCartLine, error)
	UpsertLine(ctx context.Context, cartID, variantID string, quantity int) (string, error)
	UpdateLineQuantity(ctx context.Context, lineID string, quantity int) error
	DeleteLine(ctx context.Context, lineID string) error
	ClearLines(ctx context.Context, cartID string) error
	MergeInto(ctx context.Context, srcCartID, dstCartID string) error
}

type variantRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Variant, error)
}

func New(repo cartRepo, variants variantRepo) *Service {
	return &Service{repo: repo, variants: variants}
}

// Get returns the owner's cart lines with display data. A missing cart,
// or no identity at all, reads as an empty cart rather than an error.
func (s *Service) Get(ctx context.Context, owner domain.Owner) ([]domain.ResolvedCartLine, error) {
	if owner.IsNone() {
		return []domain.ResolvedCartLine{}, nil
	}
	cart, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.ResolvedCartLine{}, nil
		}
		return nil, err
	}
	return s.repo.ListResolvedLines(ctx, cart.ID)
}

// AddItem adds quantity of a variant to the owner's cart, creating the
// cart on first use. An existing line for the variant is incremented,
// not duplicated. Returns the affected line id.
func (s *Service) AddItem(ctx context.Context, owner domain.Owner, variantID string, quantity int) (string, error) {
	if owner.IsNone() {
		return "", fmt.Errorf("%w: no identity", domain.ErrValidation)
	}
	if quantity < domain.MinLineQuantity || quantity > domain.MaxLineQuantity {
		return "", ErrQuantityOutOfRange
	}
	// The add fails when no price/stock data can be resolved for the
	// variant.
	if _, err := s.variants.GetByID(ctx, variantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown variant %s", domain.ErrValidation, variantID)
		}
		return "", err
	}

	cart, err := s.repo.GetOrCreate(ctx, owner)
	if err != nil {
		return "", err
	}
	return s.repo.UpsertLine(ctx, cart.ID, variantID, quantity)
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Quantity *int
}

// UpdateItem applies a partial update to a line.
func (s *Service) UpdateItem(ctx context.Context, lineID string, in UpdateInput) error {
	if in.Quantity == nil {
		return nil
	}
	q := *in.Quantity
	if q < domain.MinLineQuantity || q > domain.MaxLineQuantity {
		return ErrQuantityOutOfRange
	}
	return s.repo.UpdateLineQuantity(ctx, lineID, q)
}

// RemoveItem deletes a line. Removing an absent line is a silent no-op.
func (s *Service) RemoveItem(ctx context.Context, lineID string) error {
	return s.repo.DeleteLine(ctx, lineID)
}

// Clear removes every line from the owner's cart; idempotent, including
// when the owner has no cart at all.
func (s *Service) Clear(ctx context.Context, owner domain.Owner) error {
	if owner.IsNone() {
		return nil
	}
	cart, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.repo.ClearLines(ctx, cart.ID)
}

// Merge folds the guest's cart into the user's cart: quantities sum for
// shared variants, other lines move over unchanged, and the guest cart
// is deleted. A guest with no cart merges trivially. Merged quantities
// are not clamped against stock or the per-add cap; both inputs were
// individually valid and the resolved cart read carries stock for the
// caller to surface.
func (s *Service) Merge(ctx context.Context, guestID, userID string) error {
	guestCart, err := s.repo.GetByOwner(ctx, domain.GuestOwner(guestID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	userCart, err := s.repo.GetOrCreate(ctx, domain.UserOwner(userID))
	if err != nil {
		return err
	}

	return s.repo.MergeInto(ctx, guestCart.ID, userCart.ID)
}
