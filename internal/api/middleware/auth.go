package middleware

import (
	"net/http"
	"strings"

	"authgate/internal/auth"
	"authgate/internal/models"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *auth.Service
	cookieName  string
}

func NewAuthMiddleware(authService *auth.Service, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookieName:  cookieName,
	}
}

// AuthRequired validates the session token from the access-token cookie or,
// failing that, a Bearer header. Tokens carrying a stale token_version are
// rejected, so a password reset ends every prior session.
func (m *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "authentication required"})
			c.Abort()
			return
		}

		claims, user, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid or expired session"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("claims", claims)
		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// UserFromContext retrieves the authenticated user set by AuthRequired.
func UserFromContext(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	if user, ok := value.(*models.User); ok {
		return user
	}
	return nil
}
