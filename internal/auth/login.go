package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authgate/internal/models"
	"authgate/internal/repository"
)

// LoginInput carries the credentials and request metadata for one attempt.
type LoginInput struct {
	Email     string
	Password  string
	ClientIP  string
	UserAgent string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User         *models.User
	SessionToken string
}

// Login verifies credentials and issues a session token. Failure modes:
// ErrInvalidCredentials (unknown email or wrong password), ErrNotVerified,
// or LockedError with the exact unlock time.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	now := time.Now()
	emailAddr := NormalizeEmail(in.Email)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown accounts fail exactly like a wrong password.
			s.auditEvent(ctx, nil, models.AuditActionLoginFailed, "login failed: unknown email", in.ClientIP, in.UserAgent)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Verified {
		s.auditEvent(ctx, &user.ID, models.AuditActionLoginUnverified, "login rejected: email not verified", in.ClientIP, in.UserAgent)
		return nil, ErrNotVerified
	}

	if until, locked := s.lockedUntil(user, now); locked {
		// The password is deliberately not checked while locked.
		s.auditEvent(ctx, &user.ID, models.AuditActionLoginLocked, "login rejected: account locked", in.ClientIP, in.UserAgent)
		return nil, &LockedError{Until: until}
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if err := s.recordLoginFailure(ctx, user, now); err != nil {
			return nil, fmt.Errorf("failed to record login failure: %w", err)
		}
		s.auditEvent(ctx, &user.ID, models.AuditActionLoginFailed, "login failed: wrong password", in.ClientIP, in.UserAgent)
		return nil, ErrInvalidCredentials
	}

	if err := s.recordLoginSuccess(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to reset lockout state: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update login time: %w", err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.auditEvent(ctx, &user.ID, models.AuditActionLoginSuccess, "login successful", in.ClientIP, in.UserAgent)

	return &LoginResult{User: user, SessionToken: token}, nil
}
