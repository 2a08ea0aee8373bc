package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"laoud/internal/models"
)

// DefaultCoupons is the storefront's fixed coupon table, keyed by upper-case code.
func DefaultCoupons() map[string]models.Coupon {
	return map[string]models.Coupon{
		"WELCOME10": {
			Code:          "WELCOME10",
			DiscountType:  models.DiscountPercentage,
			DiscountValue: decimal.RequireFromString("0.10"),
			Description:   "10% off your first order",
		},
		"SAVE20": {
			Code:          "SAVE20",
			DiscountType:  models.DiscountPercentage,
			DiscountValue: decimal.RequireFromString("0.20"),
			Description:   "20% off orders over R1000",
		},
		"FREESHIP": {
			Code:          "FREESHIP",
			DiscountType:  models.DiscountFixed,
			DiscountValue: decimal.NewFromInt(50),
			Description:   "Free shipping",
		},
	}
}

// NormalizeCode trims and upper-cases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discounted applies c to total. Percentage coupons scale the total by
// (1 - value); fixed coupons subtract the value without going below zero.
func Discounted(total decimal.Decimal, c *models.Coupon) decimal.Decimal {
	if c == nil {
		return total
	}
	switch c.DiscountType {
	case models.DiscountPercentage:
		return total.Mul(decimal.NewFromInt(1).Sub(c.DiscountValue))
	case models.DiscountFixed:
		return decimal.Max(decimal.Zero, total.Sub(c.DiscountValue))
	}
	return total
}
