package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the limiter with a shared Redis instance so several
// proxy processes share one set of counters.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed counter store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client}
}

// Get reads the current counter, treating a missing key as zero.
func (s *RedisStore) Get(ctx context.Context, key string) (int, error) {
	count, err := s.redis.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ratelimit: get %s: %w", key, err)
	}
	return count, nil
}

// Set writes the counter with a fresh TTL.
func (s *RedisStore) Set(ctx context.Context, key string, count int, ttl time.Duration) error {
	if err := s.redis.Set(ctx, key, count, ttl).Err(); err != nil {
		return fmt.Errorf("ratelimit: set %s: %w", key, err)
	}
	return nil
}
