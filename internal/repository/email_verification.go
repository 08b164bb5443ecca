package repository

import (
	"context"
	"time"

	"authgate/internal/models"

	"github.com/google/uuid"
)

// EmailVerificationRepository defines the interface for verification token records.
// Callers hand in the token hash; raw secrets never reach this layer.
type EmailVerificationRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.EmailVerification, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.EmailVerification, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	// InvalidateForUser marks every outstanding unused token for the user as
	// used, so a resend leaves exactly one redeemable token.
	InvalidateForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) error
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}
