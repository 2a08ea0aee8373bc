package models

import "time"

// StateEntry is one persisted key of a browser's local state.
// Namespace is the browser session id, Key one of the laoud_* storage keys.
type StateEntry struct {
	Namespace string `gorm:"primaryKey;type:varchar(64)"`
	Key       string `gorm:"primaryKey;column:state_key;type:varchar(64)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// AnalyticsEvent is one tracked storefront interaction.
type AnalyticsEvent struct {
	Event     string         `json:"event" validate:"required,max=64"`
	SessionID string         `json:"sessionId"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// ChatHistory is the saved chatbot conversation of one chat session.
type ChatHistory struct {
	SessionID     string           `json:"sessionId" validate:"required"`
	Conversations []map[string]any `json:"conversations"`
	Preferences   map[string]any   `json:"preferences"`
	Timestamp     int64            `json:"timestamp"`
}
