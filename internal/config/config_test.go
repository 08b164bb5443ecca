package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("OTP_SECRET", "test_otp_secret")
}

// TestLoadFromEnvDefaults tests the defaults applied when only the required
// secrets are set
func TestLoadFromEnvDefaults(t *testing.T) {
	setRequiredSecrets(t)

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "authgate", cfg.Database.DBName)
	require.Equal(t, "disable", cfg.Database.SSLMode)

	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, 0, cfg.Redis.DB)
	require.Equal(t, 3*time.Second, cfg.Redis.CommandTimeout)

	require.Equal(t, "test_jwt_secret", cfg.Auth.JWTSecret)
	require.Equal(t, "test_otp_secret", cfg.Auth.OTPSecret)
	require.Equal(t, "15m", cfg.Auth.AccessTokenDuration)
	require.Equal(t, "access_token", cfg.Auth.CookieName)
	require.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	require.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
	require.Equal(t, 5*time.Minute, cfg.Auth.SecretTTL)
	require.Equal(t, 10, cfg.Auth.BcryptCost)

	require.True(t, cfg.RateLimit.FailOpen)
	require.False(t, cfg.Production)
	require.Equal(t, 90*24*time.Hour, cfg.AuditRetention)
}

// TestLoadFromEnvOverrides tests that environment variables override the defaults
func TestLoadFromEnvOverrides(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("PRODUCTION", "true")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "3")
	t.Setenv("LOCKOUT_DURATION", "30m")
	t.Setenv("SECRET_TTL", "10m")
	t.Setenv("RATE_LIMIT_FAIL_OPEN", "false")
	t.Setenv("RATE_LIMIT_LOGIN_WINDOW", "10m")
	t.Setenv("RATE_LIMIT_LOGIN_LIMIT", "7")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, "9090", cfg.API.Port)
	require.True(t, cfg.Production)
	require.Equal(t, 3, cfg.Auth.MaxLoginAttempts)
	require.Equal(t, 30*time.Minute, cfg.Auth.LockoutDuration)
	require.Equal(t, 10*time.Minute, cfg.Auth.SecretTTL)
	require.False(t, cfg.RateLimit.FailOpen)
	require.Equal(t, 10*time.Minute, cfg.RateLimit.LoginWindow)
	require.Equal(t, 7, cfg.RateLimit.LoginLimit)
	require.Equal(t, "redis:6380", cfg.Redis.Addr)
}

// TestLoadFromEnvRequiresSecrets tests that missing secrets fail the load
func TestLoadFromEnvRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OTP_SECRET", "")

	cfg := &Config{}
	require.Error(t, cfg.LoadFromEnv())

	t.Setenv("JWT_SECRET", "something")
	require.Error(t, cfg.LoadFromEnv())

	t.Setenv("OTP_SECRET", "something_else")
	require.NoError(t, cfg.LoadFromEnv())
}

// TestLoadFromEnvIgnoresMalformedValues tests that unparseable numeric and
// boolean values fall back to defaults
func TestLoadFromEnvIgnoresMalformedValues(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("MAX_LOGIN_ATTEMPTS", "lots")
	t.Setenv("PRODUCTION", "maybe")
	t.Setenv("LOCKOUT_DURATION", "soon")

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	require.False(t, cfg.Production)
	require.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
}
