package payment

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation tags registered by RegisterValidations.
const (
	TagLuhn   = "luhn"
	TagExpiry = "expiry"
	TagCVV    = "cvv"
)

// RegisterValidations adds the luhn, expiry and cvv tags to v. now supplies the
// reference month for expiry checks; nil means time.Now.
func RegisterValidations(v *validator.Validate, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	rules := map[string]validator.Func{
		TagLuhn: func(fl validator.FieldLevel) bool {
			return ValidateCardNumber(fl.Field().String())
		},
		TagExpiry: func(fl validator.FieldLevel) bool {
			return ValidateExpiryDate(fl.Field().String(), now())
		},
		TagCVV: func(fl validator.FieldLevel) bool {
			return ValidateCVV(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}
