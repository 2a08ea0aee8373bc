package cart

import (
	"github.com/shopspring/decimal"

	"laoud/internal/models"
)

// Pricing policy.
var (
	FreeShippingThreshold = decimal.NewFromInt(750)
	FlatShippingFee       = decimal.NewFromInt(50)
	TaxRate               = decimal.RequireFromString("0.15")
)

// Totals are the money figures shown for a cart. Discount is the amount the
// applied coupon took off the shipping and tax inclusive sum.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Compute prices items with an optional coupon. Shipping and tax are added to
// the subtotal first and the coupon is applied to that sum last.
// Shipping is not taxed.
func Compute(items []models.CartLineItem, coupon *models.Coupon) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(decimal.NewFromInt(int64(it.LineTotal())))
	}

	shipping := FlatShippingFee
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate)
	gross := subtotal.Add(shipping).Add(tax)
	total := Discounted(gross, coupon)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: gross.Sub(total),
		Total:    total,
	}
}

// FormatRand renders an amount the way the storefront prints prices, e.g. R855.00.
func FormatRand(d decimal.Decimal) string {
	return "R" + d.StringFixed(2)
}
