// Package checkout drives the checkout steps of one browser: shipping,
// payment, review and order placement, with validation at every forward move.
package checkout

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"laoud/internal/models"
	"laoud/internal/payment"
)

// Flow is the checkout state machine of one browser session.
//
//	cart -> shipping -> payment -> review -> placed
//
// Moving back keeps entered data; moving forward again re-validates it.
// Flow methods other than the submit guard must not be called concurrently.
type Flow struct {
	validator *Validator
	now       func() time.Time

	started  bool
	step     Step
	shipping models.ShippingInfo
	payment  *PaymentForm
	bankRef  string
	reviewed string
	busy     atomic.Bool
}

// NewFlow returns a flow that has not been started.
func NewFlow(v *Validator, now func() time.Time) *Flow {
	if now == nil {
		now = time.Now
	}
	return &Flow{validator: v, now: now}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	return f.step
}

// Started reports whether Begin has been called.
func (f *Flow) Started() bool {
	return f.started
}

// Shipping returns the last accepted shipping info.
func (f *Flow) Shipping() models.ShippingInfo {
	return f.shipping
}

// Payment returns the last accepted payment form.
func (f *Flow) Payment() (PaymentForm, bool) {
	if f.payment == nil {
		return PaymentForm{}, false
	}
	return *f.payment, true
}

// BankReference returns the bank transfer reference generated at review, if any.
func (f *Flow) BankReference() string {
	return f.bankRef
}

// Submitting reports whether an order submission is in flight.
func (f *Flow) Submitting() bool {
	return f.busy.Load()
}

// Begin opens checkout for a cart holding itemCount lines. Data entered in an
// earlier unfinished checkout is kept.
func (f *Flow) Begin(itemCount int) error {
	if f.busy.Load() {
		return ErrSubmitInProgress
	}
	if itemCount == 0 {
		return ErrEmptyCart
	}
	if f.step == StepOrderPlaced {
		f.reset()
	}
	f.started = true
	f.step = StepCart
	return nil
}

// SubmitShipping validates info and advances to the payment step.
func (f *Flow) SubmitShipping(info models.ShippingInfo) error {
	if err := f.ready(StepCart); err != nil {
		return err
	}
	info = trimShipping(info)
	if err := f.validator.Shipping(info); err != nil {
		return err
	}
	f.shipping = info
	f.step = StepShippingEntered
	return nil
}

// ChoosePayment validates form and advances to the review step.
func (f *Flow) ChoosePayment(form PaymentForm) error {
	if err := f.ready(StepShippingEntered); err != nil {
		return err
	}
	form = trimPayment(form)
	if err := f.validator.Payment(form); err != nil {
		return err
	}
	if form.Method != models.PaymentBank {
		f.bankRef = ""
	}
	f.payment = &form
	f.step = StepPaymentChosen
	return nil
}

// ConfirmReview re-validates shipping and payment, assigns a bank transfer
// reference when needed and marks the order ready to place. cart is the
// fingerprint of the cart the shopper reviewed.
func (f *Flow) ConfirmReview(cart string) error {
	if err := f.ready(StepPaymentChosen); err != nil {
		return err
	}
	if f.payment == nil {
		return fmt.Errorf("no payment chosen: %w", ErrStepNotReached)
	}
	if err := f.validator.Shipping(f.shipping); err != nil {
		return err
	}
	if err := f.validator.Payment(*f.payment); err != nil {
		return err
	}
	if f.payment.Method == models.PaymentBank && f.bankRef == "" {
		f.bankRef = BankReference(f.now())
	}
	f.reviewed = cart
	f.step = StepReviewConfirmed
	return nil
}

// Reviewed returns the cart fingerprint recorded by ConfirmReview.
func (f *Flow) Reviewed() string {
	return f.reviewed
}

// ReopenReview sends a confirmed review back to the payment step so the
// changed cart has to be reviewed again.
func (f *Flow) ReopenReview() {
	if f.step == StepReviewConfirmed {
		f.step = StepPaymentChosen
	}
	f.reviewed = ""
}

// Back returns to an earlier step. Entered data is kept.
func (f *Flow) Back(to Step) error {
	if f.busy.Load() {
		return ErrSubmitInProgress
	}
	if !f.started {
		return ErrNotStarted
	}
	if f.step == StepOrderPlaced {
		return ErrAlreadyPlaced
	}
	if to < StepCart || to > f.step {
		return fmt.Errorf("cannot go back to %s from %s: %w", to, f.step, ErrStepNotReached)
	}
	f.step = to
	return nil
}

// TryBeginSubmit raises the busy flag for order placement. It fails while
// another submission holds the flag or when review has not been confirmed.
func (f *Flow) TryBeginSubmit() error {
	if !f.started {
		return ErrNotStarted
	}
	if f.step == StepOrderPlaced {
		return ErrAlreadyPlaced
	}
	if f.step != StepReviewConfirmed {
		return fmt.Errorf("order needs a confirmed review, at %s: %w", f.step, ErrStepNotReached)
	}
	if !f.busy.CompareAndSwap(false, true) {
		return ErrSubmitInProgress
	}
	return nil
}

// EndSubmit lowers the busy flag.
func (f *Flow) EndSubmit() {
	f.busy.Store(false)
}

// PaymentDetails builds the masked payment record for the chosen method with
// its initial status.
func (f *Flow) PaymentDetails() models.PaymentDetails {
	if f.payment == nil {
		return models.PaymentDetails{}
	}
	switch f.payment.Method {
	case models.PaymentCard:
		d := models.PaymentDetails{Type: models.PaymentCard, CVV: payment.MaskedCVV, Status: models.PaymentStatusProcessing}
		if c := f.payment.Card; c != nil {
			d.CardNumber = payment.MaskCardNumber(c.Number)
			d.ExpiryDate = c.Expiry
			d.CardName = c.Name
		}
		return d
	case models.PaymentPayPal:
		return models.PaymentDetails{Type: models.PaymentPayPal, Status: models.PaymentStatusPendingRedirect}
	case models.PaymentBank:
		return models.PaymentDetails{Type: models.PaymentTypeBankTransfer, OrderReference: f.bankRef, Status: models.PaymentStatusPendingPayment}
	}
	return models.PaymentDetails{}
}

// Method returns the chosen payment method, or "".
func (f *Flow) Method() string {
	if f.payment == nil {
		return ""
	}
	return f.payment.Method
}

// MarkPlaced finishes the flow and forgets the entered card and address data.
func (f *Flow) MarkPlaced() {
	f.reset()
	f.started = true
	f.step = StepOrderPlaced
}

func (f *Flow) reset() {
	f.started = false
	f.step = StepCart
	f.shipping = models.ShippingInfo{}
	f.payment = nil
	f.bankRef = ""
	f.reviewed = ""
}

// ready checks the flow is started, idle and at or past need.
func (f *Flow) ready(need Step) error {
	if f.busy.Load() {
		return ErrSubmitInProgress
	}
	if !f.started {
		return ErrNotStarted
	}
	if f.step == StepOrderPlaced {
		return ErrAlreadyPlaced
	}
	if f.step < need {
		return fmt.Errorf("at %s, %s required: %w", f.step, need, ErrStepNotReached)
	}
	return nil
}

// Settle moves a payment to its post-processing status. Card and PayPal
// payments complete; bank transfers stay pending until the money arrives.
func Settle(d models.PaymentDetails) models.PaymentDetails {
	switch d.Type {
	case models.PaymentCard, models.PaymentPayPal:
		d.Status = models.PaymentStatusCompleted
	}
	return d
}

// BankReference formats a bank transfer reference from the year and the last
// six digits of the millisecond timestamp.
func BankReference(now time.Time) string {
	return fmt.Sprintf("ORDER-%d-%06d", now.Year(), now.UnixMilli()%1000000)
}

func trimShipping(info models.ShippingInfo) models.ShippingInfo {
	info.FirstName = strings.TrimSpace(info.FirstName)
	info.LastName = strings.TrimSpace(info.LastName)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.PostalCode = strings.TrimSpace(info.PostalCode)
	info.Country = strings.TrimSpace(info.Country)
	info.ShippingMethod = strings.TrimSpace(info.ShippingMethod)
	return info
}

func trimPayment(form PaymentForm) PaymentForm {
	form.Method = strings.ToLower(strings.TrimSpace(form.Method))
	if form.Card != nil {
		c := *form.Card
		c.Number = strings.TrimSpace(c.Number)
		c.Expiry = strings.TrimSpace(c.Expiry)
		c.CVV = strings.TrimSpace(c.CVV)
		c.Name = strings.TrimSpace(c.Name)
		form.Card = &c
	}
	return form
}
