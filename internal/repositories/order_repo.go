package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"laoud/internal/models"
)

// OrderRepository defines the interface for the append-only order log.
type OrderRepository interface {
	Append(ctx context.Context, session string, order models.Order) error
	GetAll(ctx context.Context, session string) ([]models.Order, error)
}

// StateOrderRepository keeps a browser's orders as one JSON array under laoud_orders.
type StateOrderRepository struct {
	store  StateStore
	logger zerolog.Logger
}

// NewStateOrderRepository creates a new instance of StateOrderRepository.
func NewStateOrderRepository(store StateStore, logger zerolog.Logger) *StateOrderRepository {
	return &StateOrderRepository{store: store, logger: logger}
}

// Append adds order to the end of the session's order log. A log that can no
// longer be decoded is replaced by a new one holding only order.
func (r *StateOrderRepository) Append(ctx context.Context, session string, order models.Order) error {
	orders, err := r.GetAll(ctx, session)
	if errors.Is(err, ErrCorruptState) {
		r.logger.Warn().Err(err).Str("session", session).Msg("discarding unreadable order log")
		orders, err = nil, nil
	}
	if err != nil {
		return err
	}
	orders = append(orders, order)
	if err := saveJSON(ctx, r.store, session, KeyOrders, orders); err != nil {
		return fmt.Errorf("failed to append order %s: %w", order.OrderNumber, err)
	}
	return nil
}

// GetAll returns the session's orders, oldest first.
func (r *StateOrderRepository) GetAll(ctx context.Context, session string) ([]models.Order, error) {
	var orders []models.Order
	if _, err := loadJSON(ctx, r.store, session, KeyOrders, &orders); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}
