package models

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// LoginResponse represents the response to a successful login.
// The access token itself is delivered via an HTTP-only cookie, never here.
type LoginResponse struct {
	UserID string `json:"user_id" example:"5f6ff9c2-8b63-4f3e-9f6c-2a4c1b7e9d01"`
	Email  string `json:"email" example:"user@example.com"`
	Role   string `json:"role" example:"user"`
}

// WeakPasswordResponse lists the rules a rejected password failed
type WeakPasswordResponse struct {
	Error   string   `json:"error" example:"password too weak"`
	Reasons []string `json:"reasons"`
}

// RateLimitResponse is the body returned with HTTP 429 on a guarded endpoint
type RateLimitResponse struct {
	Error            string    `json:"error" example:"rate limit exceeded"`
	Policy           string    `json:"policy" example:"login"`
	CurrentCount     int64     `json:"current_count" example:"6"`
	Limit            int       `json:"limit" example:"5"`
	RemainingSeconds int       `json:"remaining_seconds" example:"240"`
	ResetAt          time.Time `json:"reset_at"`
	RetryAfter       string    `json:"retry_after" example:"try again in 4 minutes"`
}

// RateLimitStatus reports the current counter state without consuming quota
type RateLimitStatus struct {
	Policy           string    `json:"policy" example:"login"`
	CurrentCount     int64     `json:"current_count" example:"2"`
	Limit            int       `json:"limit" example:"5"`
	WindowSeconds    int       `json:"window_seconds" example:"900"`
	RemainingSeconds int       `json:"remaining_seconds" example:"612"`
	ResetAt          time.Time `json:"reset_at"`
}
