package repositories

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStateStore is an in-memory implementation of StateStore.
type MemoryStateStore struct {
	entries map[string]map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryStateStore creates a new instance of MemoryStateStore.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		entries: make(map[string]map[string][]byte),
	}
}

// Get returns a copy of the value stored under namespace and key.
func (s *MemoryStateStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[namespace][key]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", namespace, key, ErrStateNotFound)
	}
	return append([]byte(nil), value...), nil
}

// Put replaces the value stored under namespace and key.
func (s *MemoryStateStore) Put(_ context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.entries[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.entries[namespace] = ns
	}
	ns[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *MemoryStateStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries[namespace], key)
	return nil
}
