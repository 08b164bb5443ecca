// Package postgres contains the PostgreSQL repository implementations
package postgres

import (
	"context"
	"database/sql"
	"time"

	"authgate/internal/models"
	"authgate/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a PostgreSQL-backed user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, role, verified, lockout_attempts,
	locked_until, token_version, last_login_at, created_at, updated_at`

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Verified,
		&user.LockoutAttempts,
		&user.LockedUntil,
		&user.TokenVersion,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	query := `
		INSERT INTO users (id, email, password_hash, role, verified, token_version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Verified,
		user.TokenVersion,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return repository.ErrEmailExists
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	query := `
		UPDATE users
		SET last_login_at = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, lastLoginAt, id)
	return err
}

func (r *userRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET verified = true, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) IncrementLockoutAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	// Atomic increment in the database avoids the lost-update race of a
	// read-modify-write under concurrent failed logins.
	query := `
		UPDATE users
		SET lockout_attempts = lockout_attempts + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING lockout_attempts`

	var attempts int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&attempts)
	if err == sql.ErrNoRows {
		return 0, repository.ErrUserNotFound
	}
	return attempts, err
}

func (r *userRepository) Lock(ctx context.Context, id uuid.UUID, attempts int, until time.Time) error {
	query := `
		UPDATE users
		SET lockout_attempts = $1, locked_until = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, attempts, until, id)
	return err
}

func (r *userRepository) ClearLockout(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET lockout_attempts = 0, locked_until = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	// token_version bumps in the same statement so the write is atomic.
	query := `
		UPDATE users
		SET password_hash = $1,
		    token_version = token_version + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}
