package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"laoud/internal/models"
	"laoud/internal/repositories"
)

// Events emitted by the cart and checkout.
const (
	EventAddToCart     = "add_to_cart"
	EventCouponApplied = "coupon_applied"
	EventOrderPlaced   = "order_placed"
)

// AnalyticsService records storefront interactions per browser.
type AnalyticsService struct {
	repo     repositories.AnalyticsRepository
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
	locks    *sessionLocks
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo repositories.AnalyticsRepository, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
		locks:    newSessionLocks(),
	}
}

// Track stores an event with the current time. Events from one browser are
// appended one at a time.
func (s *AnalyticsService) Track(ctx context.Context, session, event string, data map[string]any) error {
	e := models.AnalyticsEvent{
		Event:     event,
		SessionID: session,
		Timestamp: s.now().UnixMilli(),
		Data:      data,
	}
	if err := s.validate.Struct(e); err != nil {
		return fmt.Errorf("invalid analytics event: %w", err)
	}
	unlock := s.locks.lock(session)
	defer unlock()
	return s.repo.Track(ctx, session, e)
}

// Recent returns the browser's retained events. Storage failures yield an empty list.
func (s *AnalyticsService) Recent(ctx context.Context, session string) []models.AnalyticsEvent {
	events, err := s.repo.Recent(ctx, session)
	if err != nil {
		s.logger.Warn().Err(err).Str("session", session).Msg("analytics unavailable, returning empty list")
		return []models.AnalyticsEvent{}
	}
	if events == nil {
		events = []models.AnalyticsEvent{}
	}
	return events
}

// trackQuietly records an event and only logs a failure.
func (s *AnalyticsService) trackQuietly(ctx context.Context, session, event string, data map[string]any) {
	if s == nil {
		return
	}
	if err := s.Track(ctx, session, event, data); err != nil {
		s.logger.Warn().Err(err).Str("session", session).Str("event", event).Msg("failed to track event")
	}
}
