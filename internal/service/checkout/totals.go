package checkout

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	// Orders at or above the threshold ship free; below it, a flat fee.
	freeShippingThresholdCents = 7500
	flatShippingCents          = 999
)

// taxRate is the flat 8% sales tax, applied to the merchandise
// subtotal only; shipping is not taxed.
var taxRate = decimal.NewFromFloat(0.08)

// Totals is a cart's price breakdown in integer cents.
type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ShippingCents int64 `json:"shippingCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// CalculateTotals computes subtotal, shipping, tax and grand total from
// cart lines. Pure and deterministic: the live cart summary and the
// payment session are built from independent calls that must agree
// exactly. All arithmetic is fixed-point; tax rounds half up to whole
// cents.
func CalculateTotals(lines []domain.ResolvedCartLine) Totals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.EffectivePriceCents() * int64(line.Quantity)
	}

	var shipping int64
	if subtotal < freeShippingThresholdCents {
		shipping = flatShippingCents
	}

	tax := decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()

	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal + shipping + tax,
	}
}
