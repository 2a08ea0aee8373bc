package models

import "github.com/shopspring/decimal"

// Coupon discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a named discount rule applied to the cart total.
// DiscountValue is a fraction for percentage coupons and an amount in Rand for fixed ones.
type Coupon struct {
	Code          string          `json:"code"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	Description   string          `json:"description"`
}
