// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"

	_ "authgate/docs" // Import swagger docs
	"authgate/internal/api/handlers"
	"authgate/internal/api/middleware"
	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/email"
	"authgate/internal/ratelimit"
	"authgate/internal/repository/postgres"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, db *sql.DB, redisClient *redis.Client, mail email.Sender) *gin.Engine {
	// Create router
	r := gin.Default()

	// Initialize counter store and limiter
	store := ratelimit.NewRedisCounterStore(redisClient, cfg.Redis.CommandTimeout)
	policies := ratelimit.DefaultPolicies(cfg.Production)
	if cfg.RateLimit.LoginWindow > 0 && cfg.RateLimit.LoginLimit > 0 {
		policies[ratelimit.PolicyLogin] = ratelimit.Quota{Window: cfg.RateLimit.LoginWindow, Limit: cfg.RateLimit.LoginLimit}
	}
	limiter := ratelimit.NewLimiter(store, policies, cfg.RateLimit.FailOpen)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	emailVerifyRepo := postgres.NewEmailVerificationRepository(db)
	passwordResetRepo := postgres.NewPasswordResetRepository(db)
	auditRepo := postgres.NewAuditLogRepository(db)

	// Initialize services
	authService := auth.NewService(cfg, userRepo, emailVerifyRepo, passwordResetRepo, auditRepo, mail, limiter, auth.NewBcryptHasher(cfg.Auth.BcryptCost))

	// Initialize middleware
	gate := middleware.NewGate(limiter, middleware.DefaultGatePolicies())
	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.Auth.CookieName)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, limiter, cfg)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check (no authentication required)
		v1.GET("/health", healthHandler.Health)

		// Auth routes, each behind its own rate limit policy
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", gate.ForOperation("auth.register"), authHandler.Register)
			authGroup.POST("/login", gate.ForOperation("auth.login"), authHandler.Login)
			authGroup.GET("/verify-email", gate.ForOperation("auth.verify-email"), authHandler.VerifyEmail)
			authGroup.POST("/resend-verification", gate.ForOperation("auth.resend-verification"), authHandler.ResendVerification)
			authGroup.POST("/forgot-password", gate.ForOperation("auth.forgot-password"), authHandler.ForgotPassword)
			authGroup.POST("/reset-password", gate.ForOperation("auth.reset-password"), authHandler.ResetPassword)
			authGroup.POST("/resend-reset", gate.ForOperation("auth.resend-reset"), authHandler.ResendReset)
			authGroup.GET("/rate-limit-status", authMiddleware.AuthRequired(), authHandler.RateLimitStatus)
		}
	}

	return r
}
