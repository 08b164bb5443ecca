package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOTPFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		otp, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, c := range otp {
			require.True(t, c >= '0' && c <= '9', "otp %q contains non-digit", otp)
		}
		seen[otp] = true
	}
	// 100 draws from a million-value space should not all collide.
	require.Greater(t, len(seen), 90)
}

func TestOTPHashRoundTrip(t *testing.T) {
	otp, err := generateOTP()
	require.NoError(t, err)
	salt, err := generateOTPSalt()
	require.NoError(t, err)

	hash := hashOTP("secret", salt, otp)
	require.True(t, otpMatches("secret", salt, hash, otp))

	wrong := []byte(otp)
	wrong[0] = '0' + (wrong[0]-'0'+1)%10
	require.False(t, otpMatches("secret", salt, hash, string(wrong)))
	require.False(t, otpMatches("other-secret", salt, hash, otp))
}

func TestOTPHashSaltSeparatesEqualCodes(t *testing.T) {
	saltA, err := generateOTPSalt()
	require.NoError(t, err)
	saltB, err := generateOTPSalt()
	require.NoError(t, err)

	require.NotEqual(t, hashOTP("secret", saltA, "123456"), hashOTP("secret", saltB, "123456"))
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	raw, hash, err := generateVerificationToken()
	require.NoError(t, err)
	require.Len(t, raw, 64)
	require.Len(t, hash, 64)

	require.True(t, verificationTokenMatches(hash, raw))
	require.False(t, verificationTokenMatches(hash, "tampered"))
}
