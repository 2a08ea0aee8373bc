package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore is a go-redis implementation of StateStore. Every key
// expires ttl after its last write; a zero ttl keeps keys forever.
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore creates a new instance of RedisStateStore.
func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Ping checks the connection to redis.
func (s *RedisStateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStateStore) redisKey(namespace, key string) string {
	var b strings.Builder
	b.Grow(len(s.prefix) + len(namespace) + len(key) + 2)
	b.WriteString(s.prefix)
	b.WriteString(":")
	b.WriteString(namespace)
	b.WriteString(":")
	b.WriteString(key)
	return b.String()
}

// Get retrieves the value stored under namespace and key.
func (s *RedisStateStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.redisKey(namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s/%s: %w", namespace, key, ErrStateNotFound)
		}
		return nil, fmt.Errorf("failed to get state %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

// Put replaces the value stored under namespace and key and refreshes its expiry.
func (s *RedisStateStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.client.Set(ctx, s.redisKey(namespace, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to put state %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes the value stored under namespace and key.
func (s *RedisStateStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.Del(ctx, s.redisKey(namespace, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete state %s/%s: %w", namespace, key, err)
	}
	return nil
}
