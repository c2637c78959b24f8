package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Variant is a purchasable SKU. This service reads variants for price,
// sale price and stock; it never mutates them.
type Variant struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	SKU            string    `json:"sku"`
	Color          string    `json:"color,omitempty"`
	Size           string    `json:"size,omitempty"`
	PriceCents     int64     `json:"priceCents"`
	SalePriceCents *int64    `json:"salePriceCents,omitempty"`
	InStock        int       `json:"inStock"`
	CreatedAt      time.Time `json:"createdAt"`
}
