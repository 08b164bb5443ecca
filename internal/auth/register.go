package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"authgate/internal/models"
	"authgate/internal/ratelimit"
	"authgate/internal/repository"
)

// RegisterInput carries registration data and request metadata.
type RegisterInput struct {
	Email     string
	Password  string
	ClientIP  string
	UserAgent string
}

// Register creates an unverified account, mints a verification token and
// queues the verification mail. Fails with WeakPasswordError or
// ErrEmailExists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	emailAddr := NormalizeEmail(in.Email)

	if reasons := CheckPasswordStrength(in.Password); len(reasons) > 0 {
		return nil, &WeakPasswordError{Reasons: reasons}
	}

	existing, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        emailAddr,
		PasswordHash: passwordHash,
		Role:         "user",
		Verified:     false,
		TokenVersion: 1,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.issueVerificationToken(ctx, user); err != nil {
		return nil, err
	}

	s.auditEvent(ctx, &user.ID, models.AuditActionRegister, "user registered", in.ClientIP, in.UserAgent)
	return user, nil
}

// issueVerificationToken mints a fresh token and queues the mail carrying
// the raw secret.
func (s *Service) issueVerificationToken(ctx context.Context, user *models.User) error {
	raw, hash, err := generateVerificationToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.config.Auth.SecretTTL)
	if _, err := s.verifications.Create(ctx, user.ID, hash, expiresAt); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	if err := s.mail.SendVerificationEmail(user.Email, raw); err != nil {
		return fmt.Errorf("failed to queue verification email: %w", err)
	}
	return nil
}

// VerifyEmail redeems a verification token. One-time use: a second
// redemption of the same token fails with ErrTokenUsed.
func (s *Service) VerifyEmail(ctx context.Context, rawToken, clientIP, userAgent string) error {
	record, err := s.verifications.GetByTokenHash(ctx, hashVerificationToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	now := time.Now()
	if record.UsedAt != nil {
		return ErrTokenUsed
	}
	if record.ExpiresAt.Before(now) {
		return ErrTokenExpired
	}
	if !verificationTokenMatches(record.TokenHash, rawToken) {
		return ErrInvalidToken
	}

	if err := s.verifications.MarkUsed(ctx, record.ID, now); err != nil {
		return fmt.Errorf("failed to redeem token: %w", err)
	}
	if err := s.users.MarkVerified(ctx, record.UserID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	s.auditEvent(ctx, &record.UserID, models.AuditActionEmailVerified, "email verified", clientIP, userAgent)
	return nil
}

// ResendVerification invalidates all outstanding tokens for the address and
// mints a replacement. Throttled per email hash: 3 per 24 hours.
func (s *Service) ResendVerification(ctx context.Context, emailAddr, clientIP, userAgent string) error {
	emailAddr = NormalizeEmail(emailAddr)

	result, err := s.limiter.Check(ctx, ratelimit.PolicyResendVerification, emailIdentifier(emailAddr))
	if err != nil {
		return fmt.Errorf("resend throttle check failed: %w", err)
	}
	if !result.Allowed {
		return &RateLimitedError{Policy: ratelimit.PolicyResendVerification, Result: result}
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Do not reveal whether the address exists.
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Verified {
		return nil
	}

	if err := s.verifications.InvalidateForUser(ctx, user.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to invalidate prior tokens: %w", err)
	}
	if err := s.issueVerificationToken(ctx, user); err != nil {
		return err
	}

	s.auditEvent(ctx, &user.ID, models.AuditActionVerificationResent, "verification email resent", clientIP, userAgent)
	return nil
}

// emailIdentifier hashes an email into a rate-limit identifier so raw
// addresses never become store keys.
func emailIdentifier(emailAddr string) string {
	sum := sha256.Sum256([]byte(emailAddr))
	return hex.EncodeToString(sum[:])
}
