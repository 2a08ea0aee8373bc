package repositories

import (
	"context"
	"fmt"

	"laoud/internal/cart"
	"laoud/internal/models"
)

// CartRepository persists a browser's cart lines and applied coupon.
type CartRepository interface {
	Load(ctx context.Context, session string) (cart.State, error)
	Save(ctx context.Context, session string, state cart.State) error
}

// StateCartRepository stores the line items under laoud_cart and the coupon
// code under laoud_coupon.
type StateCartRepository struct {
	store StateStore
}

// NewStateCartRepository creates a new instance of StateCartRepository.
func NewStateCartRepository(store StateStore) *StateCartRepository {
	return &StateCartRepository{store: store}
}

// Load returns the saved cart. A session with nothing saved has an empty cart.
func (r *StateCartRepository) Load(ctx context.Context, session string) (cart.State, error) {
	var state cart.State
	var items []models.CartLineItem
	if _, err := loadJSON(ctx, r.store, session, KeyCart, &items); err != nil {
		return state, fmt.Errorf("failed to load cart: %w", err)
	}
	var code string
	if _, err := loadJSON(ctx, r.store, session, KeyCoupon, &code); err != nil {
		return state, fmt.Errorf("failed to load coupon: %w", err)
	}
	state.Items = items
	state.Coupon = code
	return state, nil
}

// Save writes the cart lines and coupon. An empty coupon removes the stored code.
func (r *StateCartRepository) Save(ctx context.Context, session string, state cart.State) error {
	items := state.Items
	if items == nil {
		items = []models.CartLineItem{}
	}
	if err := saveJSON(ctx, r.store, session, KeyCart, items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if state.Coupon == "" {
		if err := r.store.Delete(ctx, session, KeyCoupon); err != nil {
			return fmt.Errorf("failed to clear coupon: %w", err)
		}
		return nil
	}
	if err := saveJSON(ctx, r.store, session, KeyCoupon, state.Coupon); err != nil {
		return fmt.Errorf("failed to save coupon: %w", err)
	}
	return nil
}
