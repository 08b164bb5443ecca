package auth

import (
	"strings"
	"unicode"
)

// NormalizeEmail produces the canonical lookup form of an email address:
// trimmed and lowercased. All repository lookups use this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckPasswordStrength returns the list of rules the password fails.
// An empty slice means the password is acceptable.
func CheckPasswordStrength(password string) []string {
	var reasons []string

	if len(password) < 8 {
		reasons = append(reasons, "must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		reasons = append(reasons, "must be at most 72 characters")
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		reasons = append(reasons, "must contain an uppercase letter")
	}
	if !lower {
		reasons = append(reasons, "must contain a lowercase letter")
	}
	if !digit {
		reasons = append(reasons, "must contain a digit")
	}

	return reasons
}
