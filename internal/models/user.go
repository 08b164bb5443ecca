package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            string     `json:"role"`
	Verified        bool       `json:"verified"`
	LockoutAttempts int        `json:"-"`
	LockedUntil     *time.Time `json:"-"`
	TokenVersion    int        `json:"-"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsLocked reports whether the lockout window is still active at the given time.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// EmailVerification is a one-time email verification token record.
// Only the SHA-256 of the token is stored, never the raw secret.
type EmailVerification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PasswordResetOTP is a one-time password-reset code record. The OTP itself
// is stored as HMAC-SHA256(secret, salt||otp) with a per-record random salt.
type PasswordResetOTP struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	OTPHash   string     `json:"-"`
	Salt      string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
