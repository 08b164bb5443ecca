package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authgate/internal/auth"
	"authgate/internal/models"
	"authgate/internal/ratelimit"
	"authgate/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*auth.Service, *testutil.UserRepository, *models.User) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := testutil.NewUserRepository()
	limiter := ratelimit.NewLimiter(
		ratelimit.NewRedisCounterStore(client, 3*time.Second),
		ratelimit.DefaultPolicies(false),
		false,
	)
	service := auth.NewService(
		testutil.TestConfig(),
		users,
		testutil.NewEmailVerificationRepository(),
		testutil.NewPasswordResetRepository(),
		testutil.NewAuditLogRepository(),
		testutil.NewMailRecorder(),
		limiter,
		&testutil.PlainHasher{},
	)

	user := &models.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "plain:Str0ngpassword",
		Role:         "user",
		Verified:     true,
		TokenVersion: 1,
	}
	users.Seed(user)
	return service, users, user
}

func authRouter(service *auth.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(service, "access_token")
	r := gin.New()
	r.GET("/protected", m.AuthRequired(), func(c *gin.Context) {
		user := UserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return r
}

func TestAuthRequiredAcceptsCookie(t *testing.T) {
	service, _, user := newAuthFixture(t)
	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	w := httptest.NewRecorder()
	authRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice@example.com")
}

func TestAuthRequiredAcceptsBearerHeader(t *testing.T) {
	service, _, user := newAuthFixture(t)
	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	authRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsGarbageToken(t *testing.T) {
	service, _, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	authRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsRevokedToken(t *testing.T) {
	service, users, user := newAuthFixture(t)
	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	// A password change bumps token_version, orphaning the old token.
	require.NoError(t, users.UpdatePassword(context.Background(), user.ID, "plain:Fresh1password"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter(service).ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
