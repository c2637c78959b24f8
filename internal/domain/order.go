package domain

import "time"

// OrderStatus follows the lifecycle pending -> paid -> shipped ->
// delivered, or -> cancelled. Materialization creates orders as paid;
// later transitions are out of this service's hands.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is the immutable record of one completed purchase.
// ExternalSessionID is the payment provider's session id and the
// idempotency key: at most one order ever exists per session.
type Order struct {
	ID                string      `json:"id"`
	Owner             Owner       `json:"-"`
	ExternalSessionID string      `json:"externalSessionId"`
	Status            OrderStatus `json:"status"`
	TotalCents        int64       `json:"totalCents"`
	CreatedAt         time.Time   `json:"createdAt"`
	Lines             []OrderLine `json:"items,omitempty"`
}

// OrderLine freezes a cart line at purchase time. PriceAtPurchaseCents
// captures the effective unit price paid, independent of later price
// changes to the variant.
type OrderLine struct {
	ID                   string `json:"id"`
	OrderID              string `json:"orderId"`
	VariantID            string `json:"variantId"`
	Quantity             int    `json:"quantity"`
	PriceAtPurchaseCents int64  `json:"priceAtPurchaseCents"`
	ProductName          string `json:"productName,omitempty"`
	ProductImage         string `json:"productImage,omitempty"`
	Color                string `json:"color,omitempty"`
	Size                 string `json:"size,omitempty"`
}
