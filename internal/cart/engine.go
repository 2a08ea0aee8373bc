// Package cart implements the cart pricing engine: line items keyed by
// product and size, a single applied coupon, totals and the order snapshot
// taken when checkout completes.
package cart

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"laoud/internal/models"
	"laoud/internal/payment"
)

// Quantity bounds for one cart line.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// ProductFinder looks products up by id.
type ProductFinder interface {
	GetByID(id int) (*models.Product, error)
}

// State is the persisted form of a cart.
type State struct {
	Items  []models.CartLineItem `json:"items"`
	Coupon string                `json:"coupon,omitempty"`
}

// Engine holds one browser's cart. It is not safe for concurrent use.
type Engine struct {
	products ProductFinder
	coupons  map[string]models.Coupon
	items    []models.CartLineItem
	applied  *models.Coupon
}

// New restores an engine from state. A stored coupon code that is no longer
// known is dropped.
func New(products ProductFinder, state State) *Engine {
	e := &Engine{
		products: products,
		coupons:  DefaultCoupons(),
		items:    append([]models.CartLineItem(nil), state.Items...),
	}
	if c, ok := e.coupons[NormalizeCode(state.Coupon)]; ok {
		e.applied = &c
	}
	return e
}

// State returns the persisted form of the cart.
func (e *Engine) State() State {
	s := State{Items: e.Items()}
	if e.applied != nil {
		s.Coupon = e.applied.Code
	}
	return s
}

// Fingerprint identifies the lines and the coupon of a cart. Carts with equal
// fingerprints price the same.
func (s State) Fingerprint() string {
	var b strings.Builder
	for _, it := range s.Items {
		fmt.Fprintf(&b, "%d|%s|%d|%d;", it.ProductID, it.Size, it.Quantity, it.Price)
	}
	b.WriteString(NormalizeCode(s.Coupon))
	return b.String()
}

// AddItem adds quantity of the product in size, merging into an existing line
// for the same product and size. Merged quantities are capped at MaxQuantity.
// An empty size selects the product's first size.
func (e *Engine) AddItem(productID int, size string, quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	p, err := e.products.GetByID(productID)
	if err != nil {
		return fmt.Errorf("product %d: %w", productID, ErrProductUnavailable)
	}
	if !p.InStock {
		return fmt.Errorf("product %d is out of stock: %w", productID, ErrProductUnavailable)
	}
	if size == "" && len(p.Sizes) > 0 {
		size = p.Sizes[0]
	}
	if !p.HasSize(size) {
		return fmt.Errorf("%q for product %d: %w", size, productID, ErrInvalidSize)
	}

	if i := e.indexOf(productID, size); i >= 0 {
		e.items[i].Quantity = min(e.items[i].Quantity+quantity, MaxQuantity)
		return nil
	}
	e.items = append(e.items, models.CartLineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Size:      size,
		Quantity:  quantity,
	})
	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Updating a line that is not in the cart does nothing.
func (e *Engine) UpdateQuantity(productID int, size string, quantity int) error {
	if quantity <= 0 {
		e.RemoveItem(productID, size)
		return nil
	}
	if quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if i := e.indexOf(productID, size); i >= 0 {
		e.items[i].Quantity = quantity
	}
	return nil
}

// RemoveItem drops the line for productID and size, if present.
func (e *Engine) RemoveItem(productID int, size string) {
	if i := e.indexOf(productID, size); i >= 0 {
		e.items = append(e.items[:i], e.items[i+1:]...)
	}
}

// ApplyCoupon looks code up case-insensitively and makes it the active coupon.
// On error the previously applied coupon is kept.
func (e *Engine) ApplyCoupon(code string) (models.Coupon, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return models.Coupon{}, ErrEmptyCoupon
	}
	c, ok := e.coupons[normalized]
	if !ok {
		return models.Coupon{}, fmt.Errorf("%q: %w", normalized, ErrInvalidCoupon)
	}
	e.applied = &c
	return c, nil
}

// ClearCoupon removes the applied coupon.
func (e *Engine) ClearCoupon() {
	e.applied = nil
}

// AppliedCoupon returns the active coupon, if any.
func (e *Engine) AppliedCoupon() (models.Coupon, bool) {
	if e.applied == nil {
		return models.Coupon{}, false
	}
	return *e.applied, true
}

// Items returns a copy of the cart lines.
func (e *Engine) Items() []models.CartLineItem {
	return append([]models.CartLineItem{}, e.items...)
}

// Count is the number of units across all lines.
func (e *Engine) Count() int {
	n := 0
	for _, it := range e.items {
		n += it.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (e *Engine) IsEmpty() bool {
	return len(e.items) == 0
}

// Clear removes every line. The applied coupon is kept.
func (e *Engine) Clear() {
	e.items = nil
}

// ComputeTotals prices the current cart. It does not modify the engine.
func (e *Engine) ComputeTotals() Totals {
	return Compute(e.items, e.applied)
}

// PlaceOrder snapshots the cart, its totals and the masked payment into an
// order, then empties the cart and drops the coupon.
func (e *Engine) PlaceOrder(details models.PaymentDetails, shipping models.ShippingInfo, now time.Time) models.Order {
	totals := e.ComputeTotals()
	order := models.Order{
		ID:           uuid.New().String(),
		OrderNumber:  OrderNumber(now),
		Items:        e.Items(),
		Subtotal:     totals.Subtotal,
		ShippingCost: totals.Shipping,
		Tax:          totals.Tax,
		Total:        totals.Total,
		Payment:      MaskPayment(details),
		ShippingInfo: shipping,
		Timestamp:    now.UTC(),
	}
	if e.applied != nil {
		code := e.applied.Code
		order.Coupon = &code
	}

	e.items = nil
	e.applied = nil
	return order
}

// MaskPayment hides the card number behind its last four digits and replaces
// the CVV. Non-card payments are returned unchanged.
func MaskPayment(details models.PaymentDetails) models.PaymentDetails {
	if details.Type != models.PaymentCard {
		return details
	}
	if details.CardNumber != "" {
		details.CardNumber = payment.MaskCardNumber(details.CardNumber)
	}
	details.CVV = payment.MaskedCVV
	return details
}

// OrderNumber formats the customer-facing order number from the last eight
// digits of the millisecond timestamp.
func OrderNumber(now time.Time) string {
	return "LAOUD-" + lastDigits(now.UnixMilli(), 8)
}

func lastDigits(n int64, count int) string {
	s := strconv.FormatInt(n, 10)
	if len(s) > count {
		s = s[len(s)-count:]
	}
	return s
}

func (e *Engine) indexOf(productID int, size string) int {
	for i, it := range e.items {
		if it.ProductID == productID && it.Size == size {
			return i
		}
	}
	return -1
}
