package postgres

import (
	"context"
	"database/sql"
	"time"

	"authgate/internal/models"
	"authgate/internal/repository"

	"github.com/google/uuid"
)

type passwordResetRepository struct {
	db *sql.DB
}

// NewPasswordResetRepository creates a PostgreSQL-backed reset OTP repository
func NewPasswordResetRepository(db *sql.DB) repository.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, userID uuid.UUID, otpHash, salt string, expiresAt time.Time) (*models.PasswordResetOTP, error) {
	reset := &models.PasswordResetOTP{
		ID:        uuid.New(),
		UserID:    userID,
		OTPHash:   otpHash,
		Salt:      salt,
		ExpiresAt: expiresAt,
	}

	query := `
		INSERT INTO password_reset_otps (id, user_id, otp_hash, salt, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		reset.ID,
		reset.UserID,
		reset.OTPHash,
		reset.Salt,
		reset.ExpiresAt,
	).Scan(&reset.CreatedAt)
	if err != nil {
		return nil, err
	}
	return reset, nil
}

func (r *passwordResetRepository) GetLatestUnused(ctx context.Context, userID uuid.UUID) (*models.PasswordResetOTP, error) {
	reset := &models.PasswordResetOTP{}
	query := `
		SELECT id, user_id, otp_hash, salt, expires_at, used_at, created_at
		FROM password_reset_otps
		WHERE user_id = $1 AND used_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&reset.ID,
		&reset.UserID,
		&reset.OTPHash,
		&reset.Salt,
		&reset.ExpiresAt,
		&reset.UsedAt,
		&reset.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reset, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	query := `
		UPDATE password_reset_otps
		SET used_at = $1
		WHERE id = $2 AND used_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, usedAt, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrTokenUsed
	}
	return nil
}

func (r *passwordResetRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) error {
	query := `
		UPDATE password_reset_otps
		SET used_at = $1
		WHERE user_id = $2 AND used_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, usedAt, userID)
	return err
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		DELETE FROM password_reset_otps
		WHERE expires_at < $1 OR used_at IS NOT NULL`

	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
