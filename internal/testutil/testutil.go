// Package testutil provides in-memory fakes for service and handler tests
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"authgate/internal/config"
	"authgate/internal/models"
	"authgate/internal/repository"

	"github.com/google/uuid"
)

// TestConfig returns a configuration suitable for unit tests
func TestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:           "test-jwt-secret",
			OTPSecret:           "test-otp-secret",
			AccessTokenDuration: "15m",
			CookieName:          "access_token",
			MaxLoginAttempts:    5,
			LockoutDuration:     15 * time.Minute,
			SecretTTL:           5 * time.Minute,
			BcryptCost:          4,
		},
		Email: config.EmailConfig{
			AppURL: "http://localhost:3000",
		},
		RateLimit: config.RateLimitConfig{
			FailOpen: true,
		},
	}
}

// UserRepository is an in-memory implementation backed by a map
type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*models.User)}
}

// Seed inserts a user directly, bypassing Create semantics
func (r *UserRepository) Seed(user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LastLoginAt = &lastLoginAt
	return nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Verified = true
	return nil
}

func (r *UserRepository) IncrementLockoutAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	u.LockoutAttempts++
	return u.LockoutAttempts, nil
}

func (r *UserRepository) Lock(ctx context.Context, id uuid.UUID, attempts int, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LockoutAttempts = attempts
	u.LockedUntil = &until
	return nil
}

func (r *UserRepository) ClearLockout(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LockoutAttempts = 0
	u.LockedUntil = nil
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.TokenVersion++
	return nil
}

// EmailVerificationRepository is an in-memory implementation for tests
type EmailVerificationRepository struct {
	mu      sync.Mutex
	records []*models.EmailVerification
}

// NewEmailVerificationRepository creates an empty in-memory verification repository
func NewEmailVerificationRepository() *EmailVerificationRepository {
	return &EmailVerificationRepository{}
}

func (r *EmailVerificationRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.EmailVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := &models.EmailVerification{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	r.records = append(r.records, rec)
	cp := *rec
	return &cp, nil
}

func (r *EmailVerificationRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.EmailVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.TokenHash == tokenHash {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *EmailVerificationRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			if rec.UsedAt != nil {
				return repository.ErrTokenUsed
			}
			rec.UsedAt = &usedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *EmailVerificationRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.UserID == userID && rec.UsedAt == nil {
			t := usedAt
			rec.UsedAt = &t
		}
	}
	return nil
}

func (r *EmailVerificationRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*models.EmailVerification
	var deleted int64
	for _, rec := range r.records {
		if rec.ExpiresAt.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return deleted, nil
}

// Outstanding returns the number of unused records for the user
func (r *EmailVerificationRepository) Outstanding(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.UserID == userID && rec.UsedAt == nil {
			n++
		}
	}
	return n
}

// PasswordResetRepository is an in-memory implementation for tests
type PasswordResetRepository struct {
	mu      sync.Mutex
	records []*models.PasswordResetOTP
}

// NewPasswordResetRepository creates an empty in-memory reset repository
func NewPasswordResetRepository() *PasswordResetRepository {
	return &PasswordResetRepository{}
}

func (r *PasswordResetRepository) Create(ctx context.Context, userID uuid.UUID, otpHash, salt string, expiresAt time.Time) (*models.PasswordResetOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := &models.PasswordResetOTP{
		ID:        uuid.New(),
		UserID:    userID,
		OTPHash:   otpHash,
		Salt:      salt,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	r.records = append(r.records, rec)
	cp := *rec
	return &cp, nil
}

func (r *PasswordResetRepository) GetLatestUnused(ctx context.Context, userID uuid.UUID) (*models.PasswordResetOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.PasswordResetOTP
	for _, rec := range r.records {
		if rec.UserID != userID || rec.UsedAt != nil {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			if rec.UsedAt != nil {
				return repository.ErrTokenUsed
			}
			rec.UsedAt = &usedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *PasswordResetRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.UserID == userID && rec.UsedAt == nil {
			t := usedAt
			rec.UsedAt = &t
		}
	}
	return nil
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*models.PasswordResetOTP
	var deleted int64
	for _, rec := range r.records {
		if rec.ExpiresAt.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return deleted, nil
}

// AuditLogRepository records audit entries in memory for assertions
type AuditLogRepository struct {
	mu      sync.Mutex
	Entries []models.CreateAuditLogRequest
}

// NewAuditLogRepository creates an empty in-memory audit repository
func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *models.CreateAuditLogRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, *log)
	return nil
}

func (r *AuditLogRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.AuditLog, error) {
	return nil, nil
}

func (r *AuditLogRepository) CleanupOld(ctx context.Context, olderThan time.Duration) error {
	return nil
}

// Actions returns the recorded audit actions in order
func (r *AuditLogRepository) Actions() []models.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]models.AuditAction, 0, len(r.Entries))
	for _, e := range r.Entries {
		actions = append(actions, e.Action)
	}
	return actions
}

// MailJob records one captured outbound email
type MailJob struct {
	Kind   string // "verification" or "reset"
	To     string
	Secret string // raw token or OTP
}

// MailRecorder captures outbound email instead of sending it
type MailRecorder struct {
	mu   sync.Mutex
	Jobs []MailJob
	Err  error // returned from every send when non-nil
}

// NewMailRecorder creates an empty mail recorder
func NewMailRecorder() *MailRecorder {
	return &MailRecorder{}
}

func (m *MailRecorder) SendVerificationEmail(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Jobs = append(m.Jobs, MailJob{Kind: "verification", To: to, Secret: token})
	return nil
}

func (m *MailRecorder) SendPasswordResetOTP(to, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Jobs = append(m.Jobs, MailJob{Kind: "reset", To: to, Secret: otp})
	return nil
}

// LastSecret returns the secret from the most recent captured email
func (m *MailRecorder) LastSecret() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Jobs) == 0 {
		return "", fmt.Errorf("no mail captured")
	}
	return m.Jobs[len(m.Jobs)-1].Secret, nil
}

// PlainHasher is a non-hashing PasswordHasher that counts Compare calls,
// letting tests assert whether the password check was reached.
type PlainHasher struct {
	mu       sync.Mutex
	Compares int
}

func (h *PlainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (h *PlainHasher) Compare(hash, password string) error {
	h.mu.Lock()
	h.Compares++
	h.mu.Unlock()
	if hash != "plain:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}
