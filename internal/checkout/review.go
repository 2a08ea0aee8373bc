package checkout

import (
	"fmt"

	"laoud/internal/cart"
	"laoud/internal/models"
	"laoud/internal/payment"
)

// ReviewLine is one cart line as shown on the review step.
type ReviewLine struct {
	Name      string `json:"name"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// Review is the summary shown before the order is placed.
type Review struct {
	Items       []ReviewLine        `json:"items"`
	Totals      cart.Totals         `json:"totals"`
	Shipping    models.ShippingInfo `json:"shippingInfo"`
	PaymentLine string              `json:"paymentLine"`
}

// Review summarises items and totals with the flow's shipping and payment.
func (f *Flow) Review(items []models.CartLineItem, totals cart.Totals) Review {
	lines := make([]ReviewLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, ReviewLine{
			Name:      it.Name,
			Size:      it.Size,
			Quantity:  it.Quantity,
			LineTotal: fmt.Sprintf("R%d.00", it.LineTotal()),
		})
	}
	return Review{
		Items:       lines,
		Totals:      totals,
		Shipping:    f.shipping,
		PaymentLine: f.paymentLine(),
	}
}

func (f *Flow) paymentLine() string {
	if f.payment == nil {
		return ""
	}
	switch f.payment.Method {
	case models.PaymentCard:
		if f.payment.Card == nil {
			return ""
		}
		return "Payment: Card ending in " + payment.LastFour(f.payment.Card.Number)
	case models.PaymentPayPal:
		return "Payment: PayPal"
	case models.PaymentBank:
		ref := f.bankRef
		if ref == "" {
			ref = "Pending"
		}
		return "Payment: Bank Transfer (Ref: " + ref + ")"
	}
	return ""
}

// ConfirmationMessage is the notice shown once an order has been placed.
func ConfirmationMessage(order models.Order) string {
	if order.Payment.Type == models.PaymentTypeBankTransfer {
		return fmt.Sprintf("Order #%s confirmed! Please transfer %s using reference: %s. You will receive a confirmation email shortly.",
			order.OrderNumber, cart.FormatRand(order.Total), order.Payment.OrderReference)
	}
	return fmt.Sprintf("Order #%s placed successfully! You will receive a confirmation email shortly.", order.OrderNumber)
}
