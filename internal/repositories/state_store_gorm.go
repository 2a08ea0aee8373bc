package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laoud/internal/models"
)

// GORMStateStore is a GORM implementation of StateStore backed by the
// state_entries table.
type GORMStateStore struct {
	db *gorm.DB
}

// NewGORMStateStore creates a new instance of GORMStateStore.
func NewGORMStateStore(db *gorm.DB) *GORMStateStore {
	return &GORMStateStore{
		db: db,
	}
}

// Migrate creates or updates the state_entries table.
func (s *GORMStateStore) Migrate() error {
	if err := s.db.AutoMigrate(&models.StateEntry{}); err != nil {
		return fmt.Errorf("failed to migrate state entries: %w", err)
	}
	return nil
}

// Get retrieves the value stored under namespace and key.
func (s *GORMStateStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var entry models.StateEntry
	err := s.db.WithContext(ctx).First(&entry, "namespace = ? AND state_key = ?", namespace, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", namespace, key, ErrStateNotFound)
		}
		return nil, fmt.Errorf("failed to get state %s/%s: %w", namespace, key, err)
	}
	return []byte(entry.Value), nil
}

// Put inserts or replaces the value stored under namespace and key.
func (s *GORMStateStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	entry := models.StateEntry{
		Namespace: namespace,
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to put state %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes the value stored under namespace and key.
func (s *GORMStateStore) Delete(ctx context.Context, namespace, key string) error {
	res := s.db.WithContext(ctx).Delete(&models.StateEntry{}, "namespace = ? AND state_key = ?", namespace, key)
	if res.Error != nil {
		return fmt.Errorf("failed to delete state %s/%s: %w", namespace, key, res.Error)
	}
	return nil
}
