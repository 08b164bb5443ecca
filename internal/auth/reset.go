package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authgate/internal/models"
	"authgate/internal/ratelimit"
	"authgate/internal/repository"
)

// RequestPasswordReset mints a reset OTP for the account and queues the
// mail. Unknown addresses are silently accepted so the endpoint cannot be
// used for enumeration. Prior unused OTPs are invalidated first, so the
// latest code is the only redeemable one.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr, clientIP, userAgent string) error {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.Verified {
		return nil
	}

	if err := s.issueResetOTP(ctx, user); err != nil {
		return err
	}

	s.auditEvent(ctx, &user.ID, models.AuditActionResetRequested, "password reset requested", clientIP, userAgent)
	return nil
}

// ResendReset re-issues a reset OTP, throttled per user: 3 per 24 hours.
func (s *Service) ResendReset(ctx context.Context, emailAddr, clientIP, userAgent string) error {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.Verified {
		return nil
	}

	result, err := s.limiter.Check(ctx, ratelimit.PolicyResendReset, user.ID.String())
	if err != nil {
		return fmt.Errorf("resend throttle check failed: %w", err)
	}
	if !result.Allowed {
		return &RateLimitedError{Policy: ratelimit.PolicyResendReset, Result: result}
	}

	if err := s.issueResetOTP(ctx, user); err != nil {
		return err
	}

	s.auditEvent(ctx, &user.ID, models.AuditActionResetRequested, "password reset OTP resent", clientIP, userAgent)
	return nil
}

func (s *Service) issueResetOTP(ctx context.Context, user *models.User) error {
	if err := s.resets.InvalidateForUser(ctx, user.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to invalidate prior OTPs: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	salt, err := generateOTPSalt()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.config.Auth.SecretTTL)
	hash := hashOTP(s.config.Auth.OTPSecret, salt, otp)
	if _, err := s.resets.Create(ctx, user.ID, hash, salt, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset OTP: %w", err)
	}

	if err := s.mail.SendPasswordResetOTP(user.Email, otp); err != nil {
		return fmt.Errorf("failed to queue reset email: %w", err)
	}
	return nil
}

// ResetPassword redeems the latest unused OTP for the account and, in the
// same logical operation, stores the new password hash and bumps the token
// version by exactly one.
func (s *Service) ResetPassword(ctx context.Context, emailAddr, otp, newPassword, clientIP, userAgent string) error {
	emailAddr = NormalizeEmail(emailAddr)

	if reasons := CheckPasswordStrength(newPassword); len(reasons) > 0 {
		return &WeakPasswordError{Reasons: reasons}
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	record, err := s.resets.GetLatestUnused(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.auditEvent(ctx, &user.ID, models.AuditActionResetRejected, "password reset rejected: no outstanding OTP", clientIP, userAgent)
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to look up reset OTP: %w", err)
	}

	now := time.Now()
	if record.UsedAt != nil {
		return ErrTokenUsed
	}
	if record.ExpiresAt.Before(now) {
		return ErrTokenExpired
	}
	if !otpMatches(s.config.Auth.OTPSecret, record.Salt, record.OTPHash, otp) {
		s.auditEvent(ctx, &user.ID, models.AuditActionResetRejected, "password reset rejected: OTP mismatch", clientIP, userAgent)
		return ErrInvalidToken
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// UpdatePassword bumps token_version in the same statement, revoking
	// every session token issued before the reset.
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.resets.MarkUsed(ctx, record.ID, now); err != nil {
		return fmt.Errorf("failed to redeem OTP: %w", err)
	}

	s.auditEvent(ctx, &user.ID, models.AuditActionResetCompleted, "password reset completed", clientIP, userAgent)
	return nil
}
