package domain

import "time"

type Cart struct {
	ID        string    `json:"id"`
	Owner     Owner     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartLine is one variant selection inside a cart. VariantID is unique
// within a cart; adding the same variant again increments Quantity.
type CartLine struct {
	ID        string `json:"id"`
	CartID    string `json:"cartId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// ResolvedCartLine is a cart line joined with the display data the UI
// and the checkout flow need: product name, image, prices and stock.
type ResolvedCartLine struct {
	ID             string `json:"id"`
	VariantID      string `json:"variantId"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	ProductImage   string `json:"productImage"`
	Color          string `json:"color"`
	Size           string `json:"size"`
	PriceCents     int64  `json:"priceCents"`
	SalePriceCents *int64 `json:"salePriceCents,omitempty"`
	Quantity       int    `json:"quantity"`
	InStock        int    `json:"inStock"`
}

// EffectivePriceCents is the unit price the customer actually pays: the
// sale price when one is set and lower than the list price.
func (l ResolvedCartLine) EffectivePriceCents() int64 {
	if l.SalePriceCents != nil && *l.SalePriceCents < l.PriceCents {
		return *l.SalePriceCents
	}
	return l.PriceCents
}

const (
	// MinLineQuantity and MaxLineQuantity bound a single add/update.
	// A merged line may exceed the max when both source lines were
	// individually valid; merge does not clamp.
	MinLineQuantity = 1
	MaxLineQuantity = 10
)
