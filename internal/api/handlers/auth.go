package handlers

import (
	"errors"
	"net/http"

	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/models"
	"authgate/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for the account lifecycle
type AuthHandler struct {
	authService *auth.Service
	limiter     *ratelimit.Limiter
	config      *config.Config
}

// NewAuthHandler creates a new authentication handler with the given dependencies
func NewAuthHandler(authService *auth.Service, limiter *ratelimit.Limiter, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
		config:      cfg,
	}
}

// Register godoc
// @Summary Register new account
// @Description Create an unverified account and send a verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration details"
// @Success 201 {object} models.User "Account created"
// @Failure 400 {object} models.WeakPasswordResponse "Invalid request or weak password"
// @Failure 409 {object} models.ErrorResponse "Email already registered"
// @Failure 429 {object} models.RateLimitResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		ClientIP:  c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.renderAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and set the session cookie. The token is never included in the body.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse "Login successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 403 {object} models.ErrorResponse "Email not verified"
// @Failure 423 {object} models.ErrorResponse "Account locked"
// @Failure 429 {object} models.RateLimitResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), auth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		ClientIP:  c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.renderAuthError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.config.Auth.CookieName,
		result.SessionToken,
		int(h.authService.TokenDuration().Seconds()),
		"/",
		"",
		h.config.Production,
		true,
	)

	c.JSON(http.StatusOK, models.LoginResponse{
		UserID: result.User.ID.String(),
		Email:  result.User.Email,
		Role:   result.User.Role,
	})
}

// VerifyEmail godoc
// @Summary Verify email address
// @Description Redeem the one-time verification token from the emailed link
// @Tags auth
// @Accept json
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} models.SuccessResponse "Email verified"
// @Failure 400 {object} models.ErrorResponse "Invalid, expired, used, or missing token"
// @Failure 429 {object} models.RateLimitResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "verification token is required"})
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), token, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		h.renderAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "email verified successfully"})
}

// ResendVerification godoc
// @Summary Resend verification email
// @Description Invalidate outstanding tokens and send a fresh verification email. Limited to 3 per 24 hours per address.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ResendVerificationRequest true "Resend verification request"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 429 {object} models.RateLimitResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req models.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), req.Email, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		h.renderAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "if the email exists, a verification email will be sent"})
}

// ForgotPassword godoc
// @Summary Request password reset
// @Description Send a one-time reset code. Always returns success so the endpoint cannot confirm account existence.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Account email"
// @Success 200 {object} models.SuccessResponse "Reset code will be sent if the email exists"
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 429 {object} models.RateLimitResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		h.renderAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "if the email exists, a reset code will be sent"})
}

// ResetPassword godoc
// @Summary Complete password reset
// @Description Redeem the one-time code and set a new password; all prior sessions are invalidated
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Reset details"
// @Success 200 {object} models.SuccessResponse "Password reset"
// @Failure 400 {object} models.ErrorResponse "Invalid, expired, or used code, or weak password"
// @Failure 429 {object} models.RateLimitResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		h.renderAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "password reset successfully"})
}

// ResendReset godoc
// @Summary Resend password reset code
// @Description Invalidate outstanding codes and send a fresh one. Limited to 3 per 24 hours per account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ResendResetRequest true "Account email"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 429 {object} models.RateLimitResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/resend-reset [post]
func (h *AuthHandler) ResendReset(c *gin.Context) {
	var req models.ResendResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.authService.ResendReset(c.Request.Context(), req.Email, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		h.renderAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "if the email exists, a reset code will be sent"})
}

// RateLimitStatus godoc
// @Summary Rate limit status
// @Description Report the caller's login-policy counter without consuming quota
// @Tags auth
// @Produce json
// @Success 200 {object} models.RateLimitStatus
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/rate-limit-status [get]
func (h *AuthHandler) RateLimitStatus(c *gin.Context) {
	result, err := h.limiter.Peek(c.Request.Context(), ratelimit.PolicyLogin, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to read rate limit state"})
		return
	}

	c.JSON(http.StatusOK, models.RateLimitStatus{
		Policy:           string(ratelimit.PolicyLogin),
		CurrentCount:     result.CurrentCount,
		Limit:            result.Limit,
		WindowSeconds:    int(result.Window.Seconds()),
		RemainingSeconds: int(result.Remaining.Seconds()),
		ResetAt:          result.ResetAt,
	})
}

// renderAuthError maps service errors onto HTTP statuses without leaking
// which internal check failed.
func (h *AuthHandler) renderAuthError(c *gin.Context, err error) {
	var locked *auth.LockedError
	var limited *auth.RateLimitedError
	var weak *auth.WeakPasswordError

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, auth.ErrNotVerified):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "email address must be verified before logging in"})
	case errors.As(err, &locked):
		c.JSON(http.StatusLocked, models.ErrorResponse{Error: locked.Error()})
	case errors.As(err, &limited):
		remaining := int(limited.Result.Remaining.Seconds())
		c.JSON(http.StatusTooManyRequests, models.RateLimitResponse{
			Error:            "rate limit exceeded",
			Policy:           string(limited.Policy),
			CurrentCount:     limited.Result.CurrentCount,
			Limit:            limited.Result.Limit,
			RemainingSeconds: remaining,
			ResetAt:          limited.Result.ResetAt,
			RetryAfter:       limited.Error(),
		})
	case errors.As(err, &weak):
		c.JSON(http.StatusBadRequest, models.WeakPasswordResponse{Error: "password too weak", Reasons: weak.Reasons})
	case errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "email already registered"})
	case errors.Is(err, auth.ErrTokenUsed):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "token has already been used"})
	case errors.Is(err, auth.ErrTokenExpired):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "token has expired"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid or expired token"})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process request"})
	}
}
