package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"laoud/internal/cart"
	"laoud/internal/checkout"
	"laoud/internal/models"
	"laoud/internal/repositories"
)

// OrderEventPublisher announces placed orders to other systems.
type OrderEventPublisher interface {
	PublishOrderPlaced(order models.Order) error
}

// Delays are the simulated processing times per payment method.
type Delays struct {
	Card   time.Duration
	PayPal time.Duration
	Bank   time.Duration
}

// DefaultDelays matches the timings the storefront shows its spinner for.
var DefaultDelays = Delays{
	Card:   2 * time.Second,
	PayPal: 1500 * time.Millisecond,
	Bank:   1500 * time.Millisecond,
}

func (d Delays) forMethod(method string) time.Duration {
	switch method {
	case models.PaymentCard:
		return d.Card
	case models.PaymentPayPal:
		return d.PayPal
	case models.PaymentBank:
		return d.Bank
	}
	return 0
}

// CheckoutState is the checkout progress of one browser.
type CheckoutState struct {
	Step          checkout.Step       `json:"step"`
	Started       bool                `json:"started"`
	Shipping      models.ShippingInfo `json:"shippingInfo"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	BankReference string              `json:"bankReference,omitempty"`
	Submitting    bool                `json:"submitting"`
}

// PlacedOrder is the result of a successful submission.
type PlacedOrder struct {
	Order   models.Order `json:"order"`
	Message string       `json:"message"`
}

// CheckoutOption configures a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

// WithDelays sets the simulated payment processing times.
func WithDelays(d Delays) CheckoutOption {
	return func(s *CheckoutService) { s.delays = d }
}

// WithPublisher announces every placed order through p.
func WithPublisher(p OrderEventPublisher) CheckoutOption {
	return func(s *CheckoutService) { s.publisher = p }
}

type checkoutSession struct {
	mu   sync.Mutex
	flow *checkout.Flow
}

// CheckoutService drives each browser's checkout flow and places its orders.
type CheckoutService struct {
	carts     *CartService
	orders    repositories.OrderRepository
	analytics *AnalyticsService
	publisher OrderEventPublisher
	validator *checkout.Validator
	logger    zerolog.Logger
	delays    Delays
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*checkoutSession
}

// NewCheckoutService creates a new CheckoutService. analytics may be nil.
func NewCheckoutService(carts *CartService, orders repositories.OrderRepository, analytics *AnalyticsService, logger zerolog.Logger, opts ...CheckoutOption) (*CheckoutService, error) {
	s := &CheckoutService{
		carts:     carts,
		orders:    orders,
		analytics: analytics,
		logger:    logger,
		delays:    DefaultDelays,
		now:       time.Now,
		sessions:  make(map[string]*checkoutSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	v, err := checkout.NewValidator(func() time.Time { return s.now() })
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout validator: %w", err)
	}
	s.validator = v
	return s, nil
}

func (s *CheckoutService) session(id string) *checkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.sessions[id]
	if !ok {
		cs = &checkoutSession{flow: checkout.NewFlow(s.validator, s.now)}
		s.sessions[id] = cs
	}
	return cs
}

// with runs fn on the session's flow under its lock and returns the new state.
func (s *CheckoutService) with(session string, fn func(*checkout.Flow) error) (CheckoutState, error) {
	cs := s.session(session)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	err := fn(cs.flow)
	return stateOf(cs.flow), err
}

// State returns the session's checkout progress.
func (s *CheckoutService) State(session string) CheckoutState {
	st, _ := s.with(session, func(*checkout.Flow) error { return nil })
	return st
}

// Begin opens checkout for the session's current cart.
func (s *CheckoutService) Begin(ctx context.Context, session string) (CheckoutState, error) {
	lines := len(s.carts.View(ctx, session).Items)
	return s.with(session, func(f *checkout.Flow) error {
		return f.Begin(lines)
	})
}

// SubmitShipping validates the delivery address and moves on to payment.
func (s *CheckoutService) SubmitShipping(session string, info models.ShippingInfo) (CheckoutState, error) {
	return s.with(session, func(f *checkout.Flow) error {
		return f.SubmitShipping(info)
	})
}

// ChoosePayment validates the payment form and moves on to review.
func (s *CheckoutService) ChoosePayment(session string, form checkout.PaymentForm) (CheckoutState, error) {
	return s.with(session, func(f *checkout.Flow) error {
		return f.ChoosePayment(form)
	})
}

// ConfirmReview re-validates the entered data and returns the order summary.
func (s *CheckoutService) ConfirmReview(ctx context.Context, session string) (checkout.Review, error) {
	view := s.carts.View(ctx, session)
	var review checkout.Review
	_, err := s.with(session, func(f *checkout.Flow) error {
		if len(view.Items) == 0 {
			return checkout.ErrEmptyCart
		}
		if err := f.ConfirmReview(fingerprint(view)); err != nil {
			return err
		}
		review = f.Review(view.Items, view.Totals)
		return nil
	})
	return review, err
}

// Back returns to an earlier step.
func (s *CheckoutService) Back(session string, to checkout.Step) (CheckoutState, error) {
	return s.with(session, func(f *checkout.Flow) error {
		return f.Back(to)
	})
}

// PlaceOrder waits out the payment processing time, snapshots the cart into
// an order and appends it to the order log. Only one submission per session
// runs at a time. When the order cannot be stored the cart is kept. A cart
// changed since the review is not ordered; the flow goes back to the payment
// step and the review has to be confirmed again.
func (s *CheckoutService) PlaceOrder(ctx context.Context, session string) (PlacedOrder, error) {
	cs := s.session(session)

	cs.mu.Lock()
	if err := cs.flow.TryBeginSubmit(); err != nil {
		cs.mu.Unlock()
		return PlacedOrder{}, err
	}
	details := cs.flow.PaymentDetails()
	shipping := cs.flow.Shipping()
	method := cs.flow.Method()
	reviewed := cs.flow.Reviewed()
	cs.mu.Unlock()
	defer cs.flow.EndSubmit()

	if err := sleep(ctx, s.delays.forMethod(method)); err != nil {
		return PlacedOrder{}, fmt.Errorf("payment processing interrupted: %w", err)
	}
	details = checkout.Settle(details)

	var order models.Order
	_, err := s.carts.Update(ctx, session, func(e *cart.Engine) error {
		if e.IsEmpty() {
			return checkout.ErrEmptyCart
		}
		if e.State().Fingerprint() != reviewed {
			return checkout.ErrCartChanged
		}
		order = e.PlaceOrder(details, shipping, s.now())
		return s.orders.Append(ctx, session, order)
	})
	if errors.Is(err, checkout.ErrCartChanged) {
		cs.mu.Lock()
		cs.flow.ReopenReview()
		cs.mu.Unlock()
		s.logger.Info().Str("session", session).Msg("cart changed after review")
		return PlacedOrder{}, err
	}
	if err != nil {
		s.logger.Error().Err(err).Str("session", session).Msg("failed to place order")
		return PlacedOrder{}, fmt.Errorf("failed to place order: %w", err)
	}

	cs.mu.Lock()
	cs.flow.MarkPlaced()
	cs.mu.Unlock()

	s.logger.Info().
		Str("session", session).
		Str("order", order.OrderNumber).
		Str("payment", order.Payment.Type).
		Str("total", order.Total.StringFixed(2)).
		Msg("order placed")

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(order); err != nil {
			s.logger.Warn().Err(err).Str("order", order.OrderNumber).Msg("failed to publish order placed event")
		}
	}
	s.analytics.trackQuietly(ctx, session, EventOrderPlaced, map[string]any{
		"orderNumber": order.OrderNumber,
		"total":       order.Total.StringFixed(2),
		"payment":     order.Payment.Type,
	})

	return PlacedOrder{Order: order, Message: checkout.ConfirmationMessage(order)}, nil
}

// Orders returns the session's order log, oldest first.
func (s *CheckoutService) Orders(ctx context.Context, session string) ([]models.Order, error) {
	orders, err := s.orders.GetAll(ctx, session)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func fingerprint(view CartView) string {
	state := cart.State{Items: view.Items}
	if view.Coupon != nil {
		state.Coupon = view.Coupon.Code
	}
	return state.Fingerprint()
}

func stateOf(f *checkout.Flow) CheckoutState {
	return CheckoutState{
		Step:          f.Step(),
		Started:       f.Started(),
		Shipping:      f.Shipping(),
		PaymentMethod: f.Method(),
		BankReference: f.BankReference(),
		Submitting:    f.Submitting(),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
