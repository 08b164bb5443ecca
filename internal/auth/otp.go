package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const (
	verificationTokenLength = 32 // random bytes, hex-encoded in the link
	otpDigits               = 6
	otpSaltLength           = 16
)

// generateVerificationToken returns the raw token (hex) and its SHA-256
// storage hash. Only the hash is persisted.
func generateVerificationToken() (raw, hash string, err error) {
	bytes := make([]byte, verificationTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}
	raw = hex.EncodeToString(bytes)
	return raw, hashVerificationToken(raw), nil
}

func hashVerificationToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// verificationTokenMatches compares a presented token against the stored
// hash in constant time.
func verificationTokenMatches(storedHash, raw string) bool {
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(hashVerificationToken(raw))) == 1
}

// generateOTP draws six decimal digits from a crypto/rand byte stream, one
// digit per byte via modulo.
func generateOTP() (string, error) {
	bytes := make([]byte, otpDigits)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	digits := make([]byte, otpDigits)
	for i, b := range bytes {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}

func generateOTPSalt() (string, error) {
	bytes := make([]byte, otpSaltLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// hashOTP computes HMAC-SHA256(serverSecret, salt||otp). OTPs are short
// enough for offline brute force, so the keyed hash plus a per-record salt
// forces per-record attack cost.
func hashOTP(serverSecret, saltHex, otp string) string {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		salt = []byte(saltHex)
	}
	mac := hmac.New(sha256.New, []byte(serverSecret))
	mac.Write(salt)
	mac.Write([]byte(otp))
	return hex.EncodeToString(mac.Sum(nil))
}

// otpMatches recomputes the HMAC for the presented code and compares it to
// the stored hash in constant time.
func otpMatches(serverSecret, saltHex, storedHash, otp string) bool {
	expected := hashOTP(serverSecret, saltHex, otp)
	return hmac.Equal([]byte(expected), []byte(storedHash))
}
