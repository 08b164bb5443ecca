package repository

import (
	"context"
	"time"

	"authgate/internal/models"

	"github.com/google/uuid"
)

// PasswordResetRepository defines the interface for reset OTP records.
// OTPs are verified by recomputing the HMAC, so lookup is by latest unused
// record per user rather than by hash.
type PasswordResetRepository interface {
	Create(ctx context.Context, userID uuid.UUID, otpHash, salt string, expiresAt time.Time) (*models.PasswordResetOTP, error)
	GetLatestUnused(ctx context.Context, userID uuid.UUID) (*models.PasswordResetOTP, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	InvalidateForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) error
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}
