package auth

import (
	"errors"
	"fmt"
	"time"

	"authgate/internal/ratelimit"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified indicates the account exists but the email address
	// has not been verified yet.
	ErrNotVerified = errors.New("email not verified")
	// ErrEmailExists indicates a registration conflict.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidToken covers absent, malformed and expired secrets.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrTokenUsed indicates the secret was already redeemed.
	ErrTokenUsed = errors.New("token already used")
	// ErrTokenExpired indicates the secret outlived its window.
	ErrTokenExpired = errors.New("token expired")
)

// LockedError reports an active lockout window and its exact end.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
}

// RateLimitedError reports a denied resend or reset attempt together with
// the limiter state so callers can render a retry-after message.
type RateLimitedError struct {
	Policy ratelimit.Policy
	Result ratelimit.Result
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded for policy %s", e.Policy)
}

// WeakPasswordError lists every strength rule the password failed.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return "password too weak"
}
