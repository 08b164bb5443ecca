package models

// RegisterRequest represents the request to create a new account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72,strongpassword" example:"Str0ng!Pass"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254" example:"user@example.com"`
	Password string `json:"password" binding:"required,max=72" example:"Str0ng!Pass"`
}

// ResendVerificationRequest represents the request to resend a verification email
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email,max=254" example:"user@example.com"`
}

// ForgotPasswordRequest represents the request to start a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=254" example:"user@example.com"`
}

// ResetPasswordRequest represents the request to complete a password reset
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email,max=254" example:"user@example.com"`
	OTP         string `json:"otp" binding:"required,len=6,numeric" example:"104729"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72,strongpassword" example:"N3w!Passw0rd"`
}

// ResendResetRequest represents the request to resend a password reset OTP
type ResendResetRequest struct {
	Email string `json:"email" binding:"required,email,max=254" example:"user@example.com"`
}
