package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"laoud/internal/cart"
	"laoud/internal/models"
	"laoud/internal/repositories"
)

// Coupon feedback shown next to the coupon field.
const (
	MsgEnterCoupon   = "Please enter a coupon code"
	MsgInvalidCoupon = "Invalid coupon code"
)

// CartView is the cart as rendered by the storefront.
type CartView struct {
	Items  []models.CartLineItem `json:"items"`
	Totals cart.Totals           `json:"totals"`
	Coupon *models.Coupon        `json:"coupon"`
	Count  int                   `json:"count"`
}

// CouponResult carries the coupon feedback message with the updated cart.
type CouponResult struct {
	Message string   `json:"message"`
	Applied bool     `json:"applied"`
	Cart    CartView `json:"cart"`
}

// CartService loads a browser's cart, applies one change and saves it back.
type CartService struct {
	products  repositories.ProductRepository
	carts     repositories.CartRepository
	analytics *AnalyticsService
	logger    zerolog.Logger
	locks     *sessionLocks
}

// NewCartService creates a new CartService. analytics may be nil.
func NewCartService(products repositories.ProductRepository, carts repositories.CartRepository, analytics *AnalyticsService, logger zerolog.Logger) *CartService {
	return &CartService{
		products:  products,
		carts:     carts,
		analytics: analytics,
		logger:    logger,
		locks:     newSessionLocks(),
	}
}

// View returns the session's cart.
func (s *CartService) View(ctx context.Context, session string) CartView {
	unlock := s.locks.lock(session)
	defer unlock()
	return viewOf(s.load(ctx, session))
}

// AddItem adds quantity of the product in size.
func (s *CartService) AddItem(ctx context.Context, session string, productID int, size string, quantity int) (CartView, error) {
	view, err := s.Update(ctx, session, func(e *cart.Engine) error {
		return e.AddItem(productID, size, quantity)
	})
	if err != nil {
		return view, err
	}
	s.analytics.trackQuietly(ctx, session, EventAddToCart, map[string]any{
		"productId": productID,
		"size":      size,
		"quantity":  quantity,
	})
	return view, nil
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, session string, productID int, size string, quantity int) (CartView, error) {
	return s.Update(ctx, session, func(e *cart.Engine) error {
		return e.UpdateQuantity(productID, size, quantity)
	})
}

// RemoveItem drops a line.
func (s *CartService) RemoveItem(ctx context.Context, session string, productID int, size string) (CartView, error) {
	return s.Update(ctx, session, func(e *cart.Engine) error {
		e.RemoveItem(productID, size)
		return nil
	})
}

// ApplyCoupon applies code and reports the feedback message. Unknown and
// empty codes leave any previously applied coupon in place.
func (s *CartService) ApplyCoupon(ctx context.Context, session, code string) (CouponResult, error) {
	var coupon models.Coupon
	view, err := s.Update(ctx, session, func(e *cart.Engine) error {
		c, err := e.ApplyCoupon(code)
		coupon = c
		return err
	})
	switch {
	case errors.Is(err, cart.ErrEmptyCoupon):
		return CouponResult{Message: MsgEnterCoupon, Cart: view}, nil
	case errors.Is(err, cart.ErrInvalidCoupon):
		return CouponResult{Message: MsgInvalidCoupon, Cart: view}, nil
	case err != nil:
		return CouponResult{}, err
	}
	s.analytics.trackQuietly(ctx, session, EventCouponApplied, map[string]any{"code": coupon.Code})
	return CouponResult{Message: coupon.Description, Applied: true, Cart: view}, nil
}

// ClearCoupon removes the applied coupon.
func (s *CartService) ClearCoupon(ctx context.Context, session string) (CartView, error) {
	return s.Update(ctx, session, func(e *cart.Engine) error {
		e.ClearCoupon()
		return nil
	})
}

// Update runs fn against the session's cart under the session lock and saves
// the result when fn succeeds. A failed save is logged and the in-memory
// result is still returned.
func (s *CartService) Update(ctx context.Context, session string, fn func(*cart.Engine) error) (CartView, error) {
	unlock := s.locks.lock(session)
	defer unlock()

	e := s.load(ctx, session)
	if err := fn(e); err != nil {
		return viewOf(e), err
	}
	s.save(ctx, session, e)
	return viewOf(e), nil
}

func (s *CartService) load(ctx context.Context, session string) *cart.Engine {
	state, err := s.carts.Load(ctx, session)
	if err != nil {
		s.logger.Warn().Err(err).Str("session", session).Msg("cart unavailable, starting empty")
		state = cart.State{}
	}
	return cart.New(s.products, state)
}

func (s *CartService) save(ctx context.Context, session string, e *cart.Engine) {
	if err := s.carts.Save(ctx, session, e.State()); err != nil {
		s.logger.Warn().Err(err).Str("session", session).Msg("failed to save cart")
	}
}

func viewOf(e *cart.Engine) CartView {
	v := CartView{
		Items:  e.Items(),
		Totals: e.ComputeTotals(),
		Count:  e.Count(),
	}
	if c, ok := e.AppliedCoupon(); ok {
		v.Coupon = &c
	}
	if v.Items == nil {
		v.Items = []models.CartLineItem{}
	}
	return v
}
