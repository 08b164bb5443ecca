// Package auth implements the account lifecycle: registration, login with
// lockout, email verification and password reset via one-time codes.
package auth

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"authgate/internal/config"
	"authgate/internal/email"
	"authgate/internal/models"
	"authgate/internal/ratelimit"
	"authgate/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenDuration = 15 * time.Minute

var (
	// ErrTokenInvalid indicates a session token failed validation
	ErrTokenInvalid = errors.New("invalid session token")
	// ErrTokenRevoked indicates the token's version no longer matches the user
	ErrTokenRevoked = errors.New("session token revoked")
)

// Service orchestrates credential verification and the OTP/token flows.
type Service struct {
	config        *config.Config
	users         repository.UserRepository
	verifications repository.EmailVerificationRepository
	resets        repository.PasswordResetRepository
	audit         repository.AuditLogRepository
	mail          email.Sender
	limiter       *ratelimit.Limiter
	hasher        PasswordHasher
}

// NewService creates a new authentication service
func NewService(
	cfg *config.Config,
	users repository.UserRepository,
	verifications repository.EmailVerificationRepository,
	resets repository.PasswordResetRepository,
	audit repository.AuditLogRepository,
	mail email.Sender,
	limiter *ratelimit.Limiter,
	hasher PasswordHasher,
) *Service {
	return &Service{
		config:        cfg,
		users:         users,
		verifications: verifications,
		resets:        resets,
		audit:         audit,
		mail:          mail,
		limiter:       limiter,
		hasher:        hasher,
	}
}

// Claims are the session token claims.
type Claims struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateToken mints a session token for the user. Expiry comes from the
// configured duration string; see ParseTokenDuration.
func (s *Service) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenDuration())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Auth.JWTSecret))
}

// ValidateToken validates a session token and returns its claims. The
// embedded token version must still match the user row, so a password reset
// invalidates every previously issued token.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*Claims, *models.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(s.config.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, ErrTokenRevoked
	}

	return claims, user, nil
}

// TokenDuration resolves the configured access token lifetime.
func (s *Service) TokenDuration() time.Duration {
	return ParseTokenDuration(s.config.Auth.AccessTokenDuration)
}

// ParseTokenDuration parses a duration string of the form <number><unit>
// where unit is m, h or d. Anything unparseable falls back to 15 minutes.
func ParseTokenDuration(raw string) time.Duration {
	if len(raw) < 2 {
		return defaultTokenDuration
	}

	value, err := strconv.Atoi(raw[:len(raw)-1])
	if err != nil || value <= 0 {
		return defaultTokenDuration
	}

	switch raw[len(raw)-1] {
	case 'm':
		return time.Duration(value) * time.Minute
	case 'h':
		return time.Duration(value) * time.Hour
	case 'd':
		return time.Duration(value) * 24 * time.Hour
	default:
		return defaultTokenDuration
	}
}

// auditEvent persists an audit line; failures are logged, never fatal.
// Raw secrets must not appear in the description.
func (s *Service) auditEvent(ctx context.Context, userID *uuid.UUID, action models.AuditAction, description, ip, userAgent string) {
	entry := &models.CreateAuditLogRequest{
		UserID:      userID,
		Action:      action,
		Description: description,
		IPAddress:   ip,
		UserAgent:   truncate(userAgent, 100),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Printf("Failed to create audit log: %v", err)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
