package cart

import "errors"

var (
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidCoupon      = errors.New("invalid coupon code")
	ErrEmptyCoupon        = errors.New("coupon code is empty")
	ErrInvalidQuantity    = errors.New("quantity must be between 1 and 10")
	ErrInvalidSize        = errors.New("size not offered for product")
)
