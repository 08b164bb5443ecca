package postgres

import (
	"context"
	"database/sql"
	"time"

	"authgate/internal/models"
	"authgate/internal/repository"

	"github.com/google/uuid"
)

type emailVerificationRepository struct {
	db *sql.DB
}

// NewEmailVerificationRepository creates a PostgreSQL-backed verification token repository
func NewEmailVerificationRepository(db *sql.DB) repository.EmailVerificationRepository {
	return &emailVerificationRepository{db: db}
}

func (r *emailVerificationRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.EmailVerification, error) {
	verification := &models.EmailVerification{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}

	query := `
		INSERT INTO email_verifications (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		verification.ID,
		verification.UserID,
		verification.TokenHash,
		verification.ExpiresAt,
	).Scan(&verification.CreatedAt)
	if err != nil {
		return nil, err
	}
	return verification, nil
}

func (r *emailVerificationRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.EmailVerification, error) {
	verification := &models.EmailVerification{}
	query := `
		SELECT id, user_id, token_hash, expires_at, used_at, created_at
		FROM email_verifications
		WHERE token_hash = $1`

	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&verification.ID,
		&verification.UserID,
		&verification.TokenHash,
		&verification.ExpiresAt,
		&verification.UsedAt,
		&verification.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return verification, nil
}

func (r *emailVerificationRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	query := `
		UPDATE email_verifications
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

func (r *emailVerificationRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) error {
	query := `
		UPDATE email_verifications
		SET used_at = $1
		WHERE user_id = $2 AND used_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, usedAt, userID)
	return err
}

func (r *emailVerificationRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		DELETE FROM email_verifications
		WHERE expires_at < $1 OR used_at IS NOT NULL`

	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
