package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys of a browser's persisted state.
const (
	KeyCart        = "laoud_cart"
	KeyCoupon      = "laoud_coupon"
	KeyOrders      = "laoud_orders"
	KeyAnalytics   = "laoud_analytics"
	KeyChatHistory = "laoud_chat_history"
)

// ErrStateNotFound is returned when a key has never been written.
var ErrStateNotFound = errors.New("state not found")

// ErrCorruptState is returned when a stored document cannot be decoded.
var ErrCorruptState = errors.New("corrupt state")

// StateStore is a key/value store of JSON documents, partitioned by browser
// session. Writes to the same key are last-write-wins.
type StateStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
}

// loadJSON decodes the document at key into v. It reports false when the key is absent.
func loadJSON(ctx context.Context, store StateStore, namespace, key string, v any) (bool, error) {
	raw, err := store.Get(ctx, namespace, key)
	if errors.Is(err, ErrStateNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w: %w", key, ErrCorruptState, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, store StateStore, namespace, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Put(ctx, namespace, key, raw)
}
