package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"authgate/internal/models"
	"authgate/internal/ratelimit"
	"authgate/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service *Service
	users   *testutil.UserRepository
	verify  *testutil.EmailVerificationRepository
	resets  *testutil.PasswordResetRepository
	audit   *testutil.AuditLogRepository
	mail    *testutil.MailRecorder
	hasher  *testutil.PlainHasher
	redis   *miniredis.Miniredis
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &serviceFixture{
		users:  testutil.NewUserRepository(),
		verify: testutil.NewEmailVerificationRepository(),
		resets: testutil.NewPasswordResetRepository(),
		audit:  testutil.NewAuditLogRepository(),
		mail:   testutil.NewMailRecorder(),
		hasher: &testutil.PlainHasher{},
		redis:  mr,
	}
	limiter := ratelimit.NewLimiter(
		ratelimit.NewRedisCounterStore(client, 3*time.Second),
		ratelimit.DefaultPolicies(false),
		false,
	)
	f.service = NewService(testutil.TestConfig(), f.users, f.verify, f.resets, f.audit, f.mail, limiter, f.hasher)
	return f
}

func (f *serviceFixture) seedUser(t *testing.T, email, password string, verified bool) *models.User {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		Verified:     verified,
		TokenVersion: 1,
	}
	f.users.Seed(user)
	return user
}

func loginInput(email, password string) LoginInput {
	return LoginInput{Email: email, Password: password, ClientIP: "1.2.3.4", UserAgent: "test"}
}

func TestLoginFailuresTriggerLockout(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice@example.com", "Correct1pass", true)

	for i := 0; i < 4; i++ {
		_, err := f.service.Login(ctx, loginInput("alice@example.com", "Wrong1password"))
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 4, stored.LockoutAttempts)
	require.Nil(t, stored.LockedUntil)

	// The fifth failure crosses the threshold.
	_, err = f.service.Login(ctx, loginInput("alice@example.com", "Wrong1password"))
	require.ErrorIs(t, err, ErrInvalidCredentials)

	stored, err = f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 5, stored.LockoutAttempts)
	require.NotNil(t, stored.LockedUntil)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), *stored.LockedUntil, 5*time.Second)
}

func TestLockedAccountRejectsCorrectPassword(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "Correct1pass", true)

	for i := 0; i < 5; i++ {
		_, err := f.service.Login(ctx, loginInput("alice@example.com", "Wrong1password"))
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	compares := f.hasher.Compares
	_, err := f.service.Login(ctx, loginInput("alice@example.com", "Correct1pass"))

	var locked *LockedError
	require.True(t, errors.As(err, &locked))
	require.True(t, locked.Until.After(time.Now()))
	// The password is not compared while the lockout is active.
	require.Equal(t, compares, f.hasher.Compares)
}

func TestLockoutExpiresAutomatically(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice@example.com", "Correct1pass", true)

	past := time.Now().Add(-time.Second)
	require.NoError(t, f.users.Lock(ctx, user.ID, 5, past))

	result, err := f.service.Login(ctx, loginInput("alice@example.com", "Correct1pass"))
	require.NoError(t, err)
	require.NotEmpty(t, result.SessionToken)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.LockoutAttempts)
	require.Nil(t, stored.LockedUntil)
}

func TestSuccessfulLoginResetsAttemptCounter(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice@example.com", "Correct1pass", true)

	for i := 0; i < 3; i++ {
		_, err := f.service.Login(ctx, loginInput("alice@example.com", "Wrong1password"))
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := f.service.Login(ctx, loginInput("alice@example.com", "Correct1pass"))
	require.NoError(t, err)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.LockoutAttempts)
}

func TestUnknownEmailDoesNotRevealExistence(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Login(context.Background(), loginInput("nobody@example.com", "Whatever1pass"))
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUnverifiedAccountCannotLogin(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice@example.com", "Correct1pass", false)

	_, err := f.service.Login(ctx, loginInput("alice@example.com", "Correct1pass"))
	require.ErrorIs(t, err, ErrNotVerified)

	// Rejection happens before the lockout machinery, so no attempt is
	// consumed even with a wrong password.
	_, err = f.service.Login(ctx, loginInput("alice@example.com", "Wrong1password"))
	require.ErrorIs(t, err, ErrNotVerified)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.LockoutAttempts)
}

func TestLoginAuditTrail(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "Correct1pass", true)

	_, err := f.service.Login(ctx, loginInput("alice@example.com", "Wrong1password"))
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(ctx, loginInput("alice@example.com", "Correct1pass"))
	require.NoError(t, err)

	require.Equal(t, []models.AuditAction{
		models.AuditActionLoginFailed,
		models.AuditActionLoginSuccess,
	}, f.audit.Actions())
}
