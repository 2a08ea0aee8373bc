package repositories

import (
	"context"
	"fmt"

	"laoud/internal/models"
)

// MaxAnalyticsEvents is the number of events kept per browser.
const MaxAnalyticsEvents = 100

// AnalyticsRepository keeps a bounded log of storefront events.
type AnalyticsRepository interface {
	Track(ctx context.Context, session string, event models.AnalyticsEvent) error
	Recent(ctx context.Context, session string) ([]models.AnalyticsEvent, error)
}

// StateAnalyticsRepository stores the most recent events under laoud_analytics.
type StateAnalyticsRepository struct {
	store StateStore
	limit int
}

// NewStateAnalyticsRepository creates a repository keeping the last MaxAnalyticsEvents events.
func NewStateAnalyticsRepository(store StateStore) *StateAnalyticsRepository {
	return &StateAnalyticsRepository{store: store, limit: MaxAnalyticsEvents}
}

// Track appends event, dropping the oldest events beyond the limit.
func (r *StateAnalyticsRepository) Track(ctx context.Context, session string, event models.AnalyticsEvent) error {
	events, err := r.Recent(ctx, session)
	if err != nil {
		return err
	}
	events = append(events, event)
	if len(events) > r.limit {
		events = events[len(events)-r.limit:]
	}
	if err := saveJSON(ctx, r.store, session, KeyAnalytics, events); err != nil {
		return fmt.Errorf("failed to track %s: %w", event.Event, err)
	}
	return nil
}

// Recent returns the stored events, oldest first.
func (r *StateAnalyticsRepository) Recent(ctx context.Context, session string) ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	if _, err := loadJSON(ctx, r.store, session, KeyAnalytics, &events); err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}
	return events, nil
}
