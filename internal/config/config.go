// Package config loads application configuration from the environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Auth contains authentication configuration
	Auth AuthConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Redis contains counter store configuration
	Redis RedisConfig
	// Email contains email service configuration
	Email EmailConfig
	// RateLimit contains rate limiter configuration
	RateLimit RateLimitConfig

	// Production toggles stricter rate-limit quotas and the Secure cookie flag
	Production bool

	// AuditRetention is how long audit log rows are kept
	AuditRetention time.Duration
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the secret key used to sign session tokens
	JWTSecret string
	// OTPSecret is the server-side HMAC key for password reset OTPs
	OTPSecret string
	// AccessTokenDuration is a duration string of the form <number><m|h|d>
	AccessTokenDuration string
	// CookieName is the cookie carrying the access token
	CookieName string
	// MaxLoginAttempts is the failed-login threshold before lockout
	MaxLoginAttempts int
	// LockoutDuration is how long an account stays locked
	LockoutDuration time.Duration
	// SecretTTL is the lifetime of verification tokens and reset OTPs
	SecretTTL time.Duration
	// BcryptCost is the password hashing cost factor
	BcryptCost int
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// RedisConfig contains counter store connection settings
type RedisConfig struct {
	// Addr is the host:port of the Redis instance
	Addr string
	// Password is the Redis password, empty for none
	Password string
	// DB is the Redis database index
	DB int
	// CommandTimeout bounds each counter operation
	CommandTimeout time.Duration
}

// RateLimitConfig contains rate limiter settings
type RateLimitConfig struct {
	// FailOpen allows requests through when the counter store is down
	FailOpen bool
	// LoginWindow and LoginLimit override the login policy when non-zero
	LoginWindow time.Duration
	LoginLimit  int
}

// EmailConfig contains email service settings
type EmailConfig struct {
	// SMTPHost is the SMTP server hostname
	SMTPHost string
	// SMTPPort is the SMTP server port
	SMTPPort int
	// SMTPUsername is the SMTP authentication username
	SMTPUsername string
	// SMTPPassword is the SMTP authentication password
	SMTPPassword string
	// FromAddress is the email address used as sender
	FromAddress string
	// AppURL is the base URL used in verification links
	AppURL string
	// QueueSize is the mail job queue capacity
	QueueSize int
	// SendsPerMinute paces outbound SMTP traffic
	SendsPerMinute int
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.Production = getEnvAsBool("PRODUCTION", false)
	c.AuditRetention = getEnvAsDuration("AUDIT_RETENTION", 90*24*time.Hour)

	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "authgate"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: "migrations",
	}
	c.Redis = RedisConfig{
		Addr:           getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password:       os.Getenv("REDIS_PASSWORD"),
		DB:             getEnvAsInt("REDIS_DB", 0),
		CommandTimeout: getEnvAsDuration("REDIS_COMMAND_TIMEOUT", 3*time.Second),
	}
	c.Auth = AuthConfig{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		OTPSecret:           os.Getenv("OTP_SECRET"),
		AccessTokenDuration: getEnvOrDefault("ACCESS_TOKEN_DURATION", "15m"),
		CookieName:          getEnvOrDefault("ACCESS_TOKEN_COOKIE", "access_token"),
		MaxLoginAttempts:    getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
		LockoutDuration:     getEnvAsDuration("LOCKOUT_DURATION", 15*time.Minute),
		SecretTTL:           getEnvAsDuration("SECRET_TTL", 5*time.Minute),
		BcryptCost:          getEnvAsInt("BCRYPT_COST", 10),
	}
	c.Email = EmailConfig{
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		FromAddress:    os.Getenv("SMTP_FROM"),
		AppURL:         os.Getenv("APP_URL"),
		QueueSize:      getEnvAsInt("MAIL_QUEUE_SIZE", 256),
		SendsPerMinute: getEnvAsInt("MAIL_SENDS_PER_MINUTE", 60),
	}
	c.RateLimit = RateLimitConfig{
		FailOpen:    getEnvAsBool("RATE_LIMIT_FAIL_OPEN", true),
		LoginWindow: getEnvAsDuration("RATE_LIMIT_LOGIN_WINDOW", 0),
		LoginLimit:  getEnvAsInt("RATE_LIMIT_LOGIN_LIMIT", 0),
	}

	// Validate required fields
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.OTPSecret == "" {
		return fmt.Errorf("OTP_SECRET is required")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvAsDuration retrieves an environment variable and parses it as a duration
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
