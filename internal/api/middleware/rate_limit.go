package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"authgate/internal/models"
	"authgate/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// GatePolicy binds an operation to a rate-limit policy, optionally
// overriding the policy's configured window and limit.
type GatePolicy struct {
	Policy ratelimit.Policy
	Window time.Duration // 0 = policy default
	Limit  int           // 0 = policy default
}

// Gate enforces per-operation rate limits before the handler body runs.
// Policies live in an explicit map keyed by operation name so the bindings
// are inspectable and testable apart from the HTTP wiring.
type Gate struct {
	limiter  *ratelimit.Limiter
	policies map[string]GatePolicy
}

// DefaultGatePolicies returns the operation bindings for the auth API.
func DefaultGatePolicies() map[string]GatePolicy {
	return map[string]GatePolicy{
		"auth.login":               {Policy: ratelimit.PolicyLogin},
		"auth.register":            {Policy: ratelimit.PolicyRegister},
		"auth.verify-email":        {Policy: ratelimit.PolicySensitive},
		"auth.forgot-password":     {Policy: ratelimit.PolicySensitive},
		"auth.reset-password":      {Policy: ratelimit.PolicySensitive},
		"auth.resend-verification": {Policy: ratelimit.PolicySensitive},
		"auth.resend-reset":        {Policy: ratelimit.PolicySensitive},
	}
}

// NewGate creates a rate limit gate over the given limiter and policy map.
func NewGate(limiter *ratelimit.Limiter, policies map[string]GatePolicy) *Gate {
	if policies == nil {
		policies = DefaultGatePolicies()
	}
	return &Gate{limiter: limiter, policies: policies}
}

// ForOperation returns the enforcement middleware for a named operation.
// Unknown operations fall back to the general policy.
func (g *Gate) ForOperation(operation string) gin.HandlerFunc {
	gp, ok := g.policies[operation]
	if !ok {
		gp = GatePolicy{Policy: ratelimit.PolicyGeneral}
	}

	return func(c *gin.Context) {
		identifier := clientIdentifier(c)

		result, err := g.limiter.CheckWithOverride(c.Request.Context(), gp.Policy, identifier, gp.Window, gp.Limit)
		if err != nil {
			// Distinct from a fail-open result: the limiter gave up.
			// Never propagate the raw error to the client.
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "temporarily unavailable, try again later"})
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			remaining := int(result.Remaining.Seconds())
			c.Header("Retry-After", fmt.Sprintf("%d", remaining))
			c.JSON(http.StatusTooManyRequests, models.RateLimitResponse{
				Error:            "rate limit exceeded",
				Policy:           string(gp.Policy),
				CurrentCount:     result.CurrentCount,
				Limit:            result.Limit,
				RemainingSeconds: remaining,
				ResetAt:          result.ResetAt,
				RetryAfter:       retryMessage(result.Remaining),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// clientIdentifier derives the rate-limit identifier for a request:
// forwarded client IP first, then the real-IP header, then the raw
// connection address. Proxy chains list the client first.
func clientIdentifier(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx >= 0 {
			fwd = fwd[:idx]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	addr := c.Request.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx > 0 {
		addr = addr[:idx]
	}
	return addr
}

func setRateLimitHeaders(c *gin.Context, result ratelimit.Result) {
	remaining := int64(result.Limit) - result.CurrentCount
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))
	c.Header("X-RateLimit-Reset-Time", result.ResetAt.UTC().Format(time.RFC3339))
	c.Header("X-RateLimit-Window", fmt.Sprintf("%d", int(result.Window.Seconds())))
}

// retryMessage renders a human-readable wait hint, switching from seconds
// to minutes at the one-minute mark.
func retryMessage(remaining time.Duration) string {
	seconds := int(remaining.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("try again in %d seconds", seconds)
	}
	minutes := (seconds + 59) / 60
	return fmt.Sprintf("try again in %d minutes", minutes)
}
