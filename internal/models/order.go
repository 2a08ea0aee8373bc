package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment method identifiers accepted by checkout.
const (
	PaymentCard   = "card"
	PaymentPayPal = "paypal"
	PaymentBank   = "bank"
)

// PaymentTypeBankTransfer is the payment type recorded for bank orders.
const PaymentTypeBankTransfer = "bank_transfer"

// Payment statuses recorded on an order.
const (
	PaymentStatusProcessing      = "processing"
	PaymentStatusCompleted       = "completed"
	PaymentStatusPendingRedirect = "pending_redirect"
	PaymentStatusPendingPayment  = "pending_payment"
)

// ShippingInfo is the delivery address captured in the first checkout step.
type ShippingInfo struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required"`
	PostalCode     string `json:"postalCode" validate:"required"`
	Country        string `json:"country" validate:"required"`
	ShippingMethod string `json:"shippingMethod,omitempty"`
}

// PaymentDetails is the masked payment record stored with an order.
// Card numbers keep only their last four digits and the CVV is never retained.
type PaymentDetails struct {
	Type           string `json:"type"`
	CardNumber     string `json:"cardNumber,omitempty"`
	ExpiryDate     string `json:"expiryDate,omitempty"`
	CVV            string `json:"cvv,omitempty"`
	CardName       string `json:"cardName,omitempty"`
	OrderReference string `json:"orderReference,omitempty"`
	Status         string `json:"status"`
}

// Order is the snapshot written to the order log when checkout completes.
type Order struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	Items        []CartLineItem  `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	Coupon       *string         `json:"coupon"`
	Payment      PaymentDetails  `json:"payment"`
	ShippingInfo ShippingInfo    `json:"shippingInfo"`
	Timestamp    time.Time       `json:"timestamp"`
}
