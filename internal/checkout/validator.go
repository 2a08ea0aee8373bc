package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"laoud/internal/models"
	"laoud/internal/payment"
)

// Summary messages shown when a checkout step fails validation.
const (
	MsgShippingRequired = "Please fill in all required shipping information"
	MsgSelectPayment    = "Please select a payment method"
	MsgCardNumber       = "Please enter a valid card number"
	MsgExpiry           = "Please enter a valid expiry date (MM/YY)"
	MsgCVV              = "Please enter a valid CVV (3-4 digits)"
	MsgCardName         = "Please enter the name on card"
)

// CardDetails is the card form as typed by the shopper.
type CardDetails struct {
	Number string `json:"cardNumber" validate:"required,luhn"`
	Expiry string `json:"expiryDate" validate:"required,expiry"`
	CVV    string `json:"cvv" validate:"required,cvv"`
	Name   string `json:"cardName" validate:"required"`
}

// PaymentForm is the payment step input. Card is only read for card payments.
type PaymentForm struct {
	Method string       `json:"method" validate:"required,oneof=card paypal bank"`
	Card   *CardDetails `json:"card,omitempty" validate:"-"`
}

// cardFieldMessages pairs each card field with its summary and inline message.
var cardFieldMessages = map[string][2]string{
	"cardNumber": {MsgCardNumber, "Invalid card number"},
	"expiryDate": {MsgExpiry, "Invalid expiry date"},
	"cvv":        {MsgCVV, "CVV must be 3-4 digits"},
	"cardName":   {MsgCardName, "Name on card is required"},
}

// Validator checks checkout forms with validator/v10 and turns failures into
// ValidationError values.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator whose expiry checks use now; nil means time.Now.
func NewValidator(now func() time.Time) (*Validator, error) {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	if err := payment.RegisterValidations(v, now); err != nil {
		return nil, err
	}
	return &Validator{validate: v}, nil
}

// Shipping validates the delivery address.
func (v *Validator) Shipping(info models.ShippingInfo) error {
	err := v.validate.Struct(info)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate shipping info: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "email":
			fields[fe.Field()] = "Please enter a valid email address"
		default:
			fields[fe.Field()] = "This field is required"
		}
	}
	return &ValidationError{Message: MsgShippingRequired, Fields: fields}
}

// Payment validates the chosen method and, for cards, the card details. The
// summary message names the first failing card field.
func (v *Validator) Payment(form PaymentForm) error {
	if err := v.validate.Struct(form); err != nil {
		return &ValidationError{Message: MsgSelectPayment, Fields: map[string]string{"method": MsgSelectPayment}}
	}
	if form.Method != models.PaymentCard {
		return nil
	}
	if form.Card == nil {
		return &ValidationError{Message: MsgCardNumber, Fields: map[string]string{"cardNumber": "Invalid card number"}}
	}

	err := v.validate.Struct(form.Card)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate card details: %w", err)
	}
	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msgs := cardFieldMessages[fe.Field()]
		if ve.Message == "" {
			ve.Message = msgs[0]
		}
		ve.Fields[fe.Field()] = msgs[1]
	}
	return ve
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
