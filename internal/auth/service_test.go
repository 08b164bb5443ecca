package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func registerInput(email, password string) RegisterInput {
	return RegisterInput{Email: email, Password: password, ClientIP: "1.2.3.4", UserAgent: "test"}
}

func TestRegisterCreatesUnverifiedAccount(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	user, err := f.service.Register(ctx, registerInput("Alice@Example.com", "Str0ngpassword"))
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "user", user.Role)
	require.False(t, user.Verified)
	require.Equal(t, 1, user.TokenVersion)

	// One verification mail with the raw token is queued.
	require.Len(t, f.mail.Jobs, 1)
	require.Equal(t, "verification", f.mail.Jobs[0].Kind)
	require.Equal(t, "alice@example.com", f.mail.Jobs[0].To)
	require.NotEmpty(t, f.mail.Jobs[0].Secret)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Register(context.Background(), registerInput("alice@example.com", "short"))

	var weak *WeakPasswordError
	require.True(t, errors.As(err, &weak))
	require.NotEmpty(t, weak.Reasons)
	require.Empty(t, f.mail.Jobs)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, registerInput("alice@example.com", "Str0ngpassword"))
	require.NoError(t, err)

	// Normalization makes the duplicate check case-insensitive.
	_, err = f.service.Register(ctx, registerInput("ALICE@example.com", "An0therpassword"))
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestVerifyEmailRedeemsToken(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	user, err := f.service.Register(ctx, registerInput("alice@example.com", "Str0ngpassword"))
	require.NoError(t, err)

	token, err := f.mail.LastSecret()
	require.NoError(t, err)

	require.NoError(t, f.service.VerifyEmail(ctx, token, "1.2.3.4", "test"))

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.Verified)

	// One-time use.
	err = f.service.VerifyEmail(ctx, token, "1.2.3.4", "test")
	require.ErrorIs(t, err, ErrTokenUsed)
}

func TestVerifyEmailRejectsUnknownToken(t *testing.T) {
	f := newServiceFixture(t)

	err := f.service.VerifyEmail(context.Background(), "deadbeef", "1.2.3.4", "test")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmailRejectsExpiredToken(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice@example.com", "Str0ngpassword", false)

	raw, hash, err := generateVerificationToken()
	require.NoError(t, err)
	_, err = f.verify.Create(ctx, user.ID, hash, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	err = f.service.VerifyEmail(ctx, raw, "1.2.3.4", "test")
	require.ErrorIs(t, err, ErrTokenExpired)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, stored.Verified)
}

func TestResendVerificationInvalidatesPriorTokens(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	user, err := f.service.Register(ctx, registerInput("alice@example.com", "Str0ngpassword"))
	require.NoError(t, err)
	first, err := f.mail.LastSecret()
	require.NoError(t, err)

	require.NoError(t, f.service.ResendVerification(ctx, "alice@example.com", "1.2.3.4", "test"))

	// The superseded token no longer redeems; the fresh one does.
	err = f.service.VerifyEmail(ctx, first, "1.2.3.4", "test")
	require.ErrorIs(t, err, ErrTokenUsed)
	require.Equal(t, 1, f.verify.Outstanding(user.ID))

	second, err := f.mail.LastSecret()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	require.NoError(t, f.service.VerifyEmail(ctx, second, "1.2.3.4", "test"))
}

func TestResendVerificationThrottled(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "Str0ngpassword", false)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.service.ResendVerification(ctx, "alice@example.com", "1.2.3.4", "test"))
	}

	err := f.service.ResendVerification(ctx, "alice@example.com", "1.2.3.4", "test")
	var limited *RateLimitedError
	require.True(t, errors.As(err, &limited))
	require.Equal(t, 3, limited.Result.Limit)

	// The window rolls over after 24 hours.
	f.redis.FastForward(24*time.Hour + time.Second)
	require.NoError(t, f.service.ResendVerification(ctx, "alice@example.com", "1.2.3.4", "test"))
}

func TestResendVerificationSilentForUnknownOrVerified(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "bob@example.com", "Str0ngpassword", true)

	require.NoError(t, f.service.ResendVerification(ctx, "nobody@example.com", "1.2.3.4", "test"))
	require.NoError(t, f.service.ResendVerification(ctx, "bob@example.com", "1.2.3.4", "test"))
	require.Empty(t, f.mail.Jobs)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice@example.com", "Or1ginalpass", true)

	// A session issued before the reset must die with it.
	oldToken, err := f.service.GenerateToken(user)
	require.NoError(t, err)

	require.NoError(t, f.service.RequestPasswordReset(ctx, "alice@example.com", "1.2.3.4", "test"))
	otp, err := f.mail.LastSecret()
	require.NoError(t, err)
	require.Len(t, otp, 6)

	require.NoError(t, f.service.ResetPassword(ctx, "alice@example.com", otp, "Fresh1password", "1.2.3.4", "test"))

	// Old password out, new password in.
	_, err = f.service.Login(ctx, loginInput("alice@example.com", "Or1ginalpass"))
	require.ErrorIs(t, err, ErrInvalidCredentials)
	result, err := f.service.Login(ctx, loginInput("alice@example.com", "Fresh1password"))
	require.NoError(t, err)

	// token_version moved by exactly one, revoking the old session.
	require.Equal(t, 2, result.User.TokenVersion)
	_, _, err = f.service.ValidateToken(ctx, oldToken)
	require.ErrorIs(t, err, ErrTokenRevoked)
	_, _, err = f.service.ValidateToken(ctx, result.SessionToken)
	require.NoError(t, err)

	// The OTP is one-time use.
	err = f.service.ResetPassword(ctx, "alice@example.com", otp, "Yet4notherpass", "1.2.3.4", "test")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordRejectsWrongOTP(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "Or1ginalpass", true)

	require.NoError(t, f.service.RequestPasswordReset(ctx, "alice@example.com", "1.2.3.4", "test"))
	otp, err := f.mail.LastSecret()
	require.NoError(t, err)

	wrong := "000000"
	if otp == wrong {
		wrong = "000001"
	}
	err = f.service.ResetPassword(ctx, "alice@example.com", wrong, "Fresh1password", "1.2.3.4", "test")
	require.ErrorIs(t, err, ErrInvalidToken)

	// The right code still works afterwards.
	require.NoError(t, f.service.ResetPassword(ctx, "alice@example.com", otp, "Fresh1password", "1.2.3.4", "test"))
}

func TestResetPasswordRejectsExpiredOTP(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice@example.com", "Or1ginalpass", true)

	otp, err := generateOTP()
	require.NoError(t, err)
	salt, err := generateOTPSalt()
	require.NoError(t, err)
	hash := hashOTP("test-otp-secret", salt, otp)
	_, err = f.resets.Create(ctx, user.ID, hash, salt, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	err = f.service.ResetPassword(ctx, "alice@example.com", otp, "Fresh1password", "1.2.3.4", "test")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetPasswordRejectsWeakReplacement(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "Or1ginalpass", true)

	require.NoError(t, f.service.RequestPasswordReset(ctx, "alice@example.com", "1.2.3.4", "test"))
	otp, err := f.mail.LastSecret()
	require.NoError(t, err)

	err = f.service.ResetPassword(ctx, "alice@example.com", otp, "weak", "1.2.3.4", "test")
	var weak *WeakPasswordError
	require.True(t, errors.As(err, &weak))

	// Strength is checked before redemption, so the OTP survives.
	require.NoError(t, f.service.ResetPassword(ctx, "alice@example.com", otp, "Fresh1password", "1.2.3.4", "test"))
}

func TestRequestPasswordResetSilentForUnknown(t *testing.T) {
	f := newServiceFixture(t)

	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "nobody@example.com", "1.2.3.4", "test"))
	require.Empty(t, f.mail.Jobs)
}

func TestRequestPasswordResetSupersedesPriorOTP(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "Or1ginalpass", true)

	require.NoError(t, f.service.RequestPasswordReset(ctx, "alice@example.com", "1.2.3.4", "test"))
	first, err := f.mail.LastSecret()
	require.NoError(t, err)

	require.NoError(t, f.service.RequestPasswordReset(ctx, "alice@example.com", "1.2.3.4", "test"))
	second, err := f.mail.LastSecret()
	require.NoError(t, err)

	if first != second {
		err = f.service.ResetPassword(ctx, "alice@example.com", first, "Fresh1password", "1.2.3.4", "test")
		require.ErrorIs(t, err, ErrInvalidToken)
	}
	require.NoError(t, f.service.ResetPassword(ctx, "alice@example.com", second, "Fresh1password", "1.2.3.4", "test"))
}

func TestResendResetThrottledPerAccount(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "Or1ginalpass", true)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.service.ResendReset(ctx, "alice@example.com", "1.2.3.4", "test"))
	}

	err := f.service.ResendReset(ctx, "alice@example.com", "1.2.3.4", "test")
	var limited *RateLimitedError
	require.True(t, errors.As(err, &limited))
}

func TestGenerateAndValidateToken(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice@example.com", "Or1ginalpass", true)

	token, err := f.service.GenerateToken(user)
	require.NoError(t, err)

	claims, stored, err := f.service.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "user", claims.Role)
	require.Equal(t, 1, claims.TokenVersion)

	_, _, err = f.service.ValidateToken(ctx, "not.a.token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"minutes", "30m", 30 * time.Minute},
		{"hours", "12h", 12 * time.Hour},
		{"days", "7d", 7 * 24 * time.Hour},
		{"empty", "", 15 * time.Minute},
		{"no unit", "30", 15 * time.Minute},
		{"bad unit", "30x", 15 * time.Minute},
		{"not a number", "abcm", 15 * time.Minute},
		{"zero", "0m", 15 * time.Minute},
		{"negative", "-5m", 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseTokenDuration(tt.input))
		})
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	require.Empty(t, CheckPasswordStrength("Str0ngpassword"))

	reasons := CheckPasswordStrength("weak")
	require.NotEmpty(t, reasons)

	require.NotEmpty(t, CheckPasswordStrength("alllowercase1"))
	require.NotEmpty(t, CheckPasswordStrength("ALLUPPERCASE1"))
	require.NotEmpty(t, CheckPasswordStrength("NoDigitsHere"))
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestAuditDescriptionsNeverCarrySecrets(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "Or1ginalpass", true)

	require.NoError(t, f.service.RequestPasswordReset(ctx, "alice@example.com", "1.2.3.4", "test"))
	otp, err := f.mail.LastSecret()
	require.NoError(t, err)
	require.NoError(t, f.service.ResetPassword(ctx, "alice@example.com", otp, "Fresh1password", "1.2.3.4", "test"))

	for _, entry := range f.audit.Entries {
		require.NotContains(t, entry.Description, otp)
	}
}
