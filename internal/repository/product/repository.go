package product

import (
	"context"

	"storefront/internal/domain"
)

// Detail is a product with all of its purchasable variants, the shape
// the catalog endpoints return so a client can pick a variant id to add
// to a cart.
type Detail struct {
	domain.Product
	Variants []domain.Variant `json:"variants"`
}

type Repository interface {
	List(ctx context.Context) ([]Detail, error)
	GetByID(ctx context.Context, id string) (*Detail, error)
}
