package variant

import (
	"context"

	"storefront/internal/domain"
)

// Detail is a variant joined with the product fields carts display.
type Detail struct {
	domain.Variant
	ProductName  string
	ProductImage string
}

// Repository is read-only reference data: this service never writes
// variants or products.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Variant, error)
	GetDetail(ctx context.Context, id string) (*Detail, error)
}
