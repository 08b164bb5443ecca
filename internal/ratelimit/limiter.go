package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Result is the outcome of a single rate-limit check.
type Result struct {
	Allowed      bool
	CurrentCount int64
	Limit        int
	Window       time.Duration
	Remaining    time.Duration
	ResetAt      time.Time
}

// Limiter enforces fixed-window quotas per (policy, identifier) pair.
//
// Fixed windows are a deliberate tradeoff over sliding windows: a burst at
// a window boundary can admit up to twice the limit, which is acceptable
// because the guarded operations are not capacity-critical.
type Limiter struct {
	store    CounterStore
	policies Policies
	failOpen bool
}

// NewLimiter creates a limiter over the given counter store. With failOpen
// set, store failures count as allowed so an unreachable Redis does not take
// down every guarded endpoint.
func NewLimiter(store CounterStore, policies Policies, failOpen bool) *Limiter {
	return &Limiter{store: store, policies: policies, failOpen: failOpen}
}

func counterKey(policy Policy, identifier string) string {
	return fmt.Sprintf("rate-limit:%s:%s", policy, identifier)
}

// Check records one request against the policy's configured quota.
func (l *Limiter) Check(ctx context.Context, policy Policy, identifier string) (Result, error) {
	q := l.policies.Resolve(policy)
	return l.check(ctx, policy, identifier, q.Window, q.Limit)
}

// CheckWithOverride records one request against an explicit window and limit,
// taking precedence over the policy's configured quota.
func (l *Limiter) CheckWithOverride(ctx context.Context, policy Policy, identifier string, window time.Duration, limit int) (Result, error) {
	q := l.policies.Resolve(policy)
	if window <= 0 {
		window = q.Window
	}
	if limit <= 0 {
		limit = q.Limit
	}
	return l.check(ctx, policy, identifier, window, limit)
}

func (l *Limiter) check(ctx context.Context, policy Policy, identifier string, window time.Duration, limit int) (Result, error) {
	key := counterKey(policy, identifier)

	count, err := l.store.Increment(ctx, key, window)
	if err != nil {
		return l.recover(policy, window, limit, err)
	}

	remaining, err := l.store.TTL(ctx, key)
	if err != nil {
		return l.recover(policy, window, limit, err)
	}
	if remaining <= 0 {
		// Expiry not visible yet; assume a fresh window.
		remaining = window
	}

	return Result{
		Allowed:      count <= int64(limit),
		CurrentCount: count,
		Limit:        limit,
		Window:       window,
		Remaining:    remaining,
		ResetAt:      time.Now().Add(remaining),
	}, nil
}

// recover applies the fail-open policy to a store error. The degradation is
// logged either way; with failOpen disabled the error propagates and the
// caller decides.
func (l *Limiter) recover(policy Policy, window time.Duration, limit int, err error) (Result, error) {
	log.Printf("rate limiter degraded, policy=%s failOpen=%t: %v", policy, l.failOpen, err)
	if !l.failOpen {
		return Result{}, err
	}
	return Result{
		Allowed:      true,
		CurrentCount: 0,
		Limit:        limit,
		Window:       window,
		Remaining:    window,
		ResetAt:      time.Now().Add(window),
	}, nil
}

// Peek reports the current counter state without consuming quota.
func (l *Limiter) Peek(ctx context.Context, policy Policy, identifier string) (Result, error) {
	q := l.policies.Resolve(policy)
	key := counterKey(policy, identifier)

	count, err := l.store.Peek(ctx, key)
	if err != nil {
		return l.recover(policy, q.Window, q.Limit, err)
	}
	remaining, err := l.store.TTL(ctx, key)
	if err != nil {
		return l.recover(policy, q.Window, q.Limit, err)
	}
	if remaining <= 0 {
		remaining = q.Window
	}

	return Result{
		Allowed:      count <= int64(q.Limit),
		CurrentCount: count,
		Limit:        q.Limit,
		Window:       q.Window,
		Remaining:    remaining,
		ResetAt:      time.Now().Add(remaining),
	}, nil
}

// Reset deletes the counter for the pair. Administrative override.
func (l *Limiter) Reset(ctx context.Context, policy Policy, identifier string) error {
	return l.store.Delete(ctx, counterKey(policy, identifier))
}
