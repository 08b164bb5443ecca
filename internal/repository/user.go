package repository

import (
	"context"
	"time"

	"authgate/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// IncrementLockoutAttempts bumps the failed-attempt counter atomically
	// in the database and returns the new value, avoiding the lost-update
	// race of a read-modify-write cycle.
	IncrementLockoutAttempts(ctx context.Context, id uuid.UUID) (int, error)
	// Lock caps the attempt counter and sets the unlock timestamp.
	Lock(ctx context.Context, id uuid.UUID, attempts int, until time.Time) error
	// ClearLockout resets the attempt counter and unlock timestamp.
	ClearLockout(ctx context.Context, id uuid.UUID) error

	// UpdatePassword stores a new password hash and bumps token_version by
	// exactly one in the same statement, invalidating outstanding sessions.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
