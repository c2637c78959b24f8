package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository owns the identity -> cart mapping and the lines within a
// cart. Implementations are selected once at startup (postgres for real
// deployments, memory for local development and tests); they are never
// swapped at request time.
type Repository interface {
	// GetOrCreate returns the identity's cart, creating an empty one
	// when none exists. Safe to call concurrently for the same owner.
	GetOrCreate(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	// GetByOwner returns domain.ErrNotFound when the identity has no cart.
	GetByOwner(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	// ListResolvedLines returns the cart's lines joined with variant and
	// product display data. Empty carts yield an empty slice.
	ListResolvedLines(ctx context.Context, cartID string) ([]domain.ResolvedCartLine, error)
	// UpsertLine adds quantity to the variant's line, creating the line
	// when absent, as one atomic step. Returns the affected line id.
	UpsertLine(ctx context.Context, cartID, variantID string, quantity int) (string, error)
	// UpdateLineQuantity replaces a line's quantity.
	UpdateLineQuantity(ctx context.Context, lineID string, quantity int) error
	// DeleteLine removes a line; deleting an absent line is a no-op.
	DeleteLine(ctx context.Context, lineID string) error
	// ClearLines removes every line of the cart; idempotent.
	ClearLines(ctx context.Context, cartID string) error
	// MergeInto folds srcCartID into dstCartID, summing quantities for
	// shared variants, and deletes the source cart. Runs in a single
	// transaction so a failed merge leaves both carts untouched.
	MergeInto(ctx context.Context, srcCartID, dstCartID string) error
}
