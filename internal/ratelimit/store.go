// Package ratelimit implements a fixed-window request counter backed by
// Redis, and the policy table that maps operations to budgets.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable indicates the counter backend is unreachable.
var ErrStoreUnavailable = errors.New("counter store unavailable")

// CounterStore provides atomic counter operations for rate limiting.
type CounterStore interface {
	// Increment bumps the counter at key and (re-)applies the window expiry
	// in a single atomic round trip. A missing key is created at 1.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	// TTL returns the remaining lifetime of key; zero or negative when the
	// key is absent or carries no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Peek returns the current count without incrementing or touching the
	// expiry. Absent keys read as zero.
	Peek(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
}

// RedisCounterStore implements CounterStore on a Redis client. Every command
// carries a short timeout so a degraded Redis cannot stall request handling.
type RedisCounterStore struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewRedisCounterStore creates a counter store backed by the given client.
// A non-positive timeout defaults to 3 seconds.
func NewRedisCounterStore(client redis.UniversalClient, timeout time.Duration) *RedisCounterStore {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RedisCounterStore{client: client, timeout: timeout}
}

func (s *RedisCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// INCR and EXPIRE travel in one transactional pipeline; separate calls
	// would let two concurrent first requests both observe an absent key.
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return incr.Val(), nil
}

func (s *RedisCounterStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *RedisCounterStore) Peek(ctx context.Context, key string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *RedisCounterStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
