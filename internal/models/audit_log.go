package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action performed
type AuditAction string

const (
	AuditActionRegister           AuditAction = "register"
	AuditActionLoginSuccess       AuditAction = "login_success"
	AuditActionLoginFailed        AuditAction = "login_failed"
	AuditActionLoginLocked        AuditAction = "login_locked"
	AuditActionLoginUnverified    AuditAction = "login_unverified"
	AuditActionEmailVerified      AuditAction = "email_verified"
	AuditActionVerificationResent AuditAction = "verification_resent"
	AuditActionResetRequested     AuditAction = "password_reset_requested"
	AuditActionResetCompleted     AuditAction = "password_reset_completed"
	AuditActionResetRejected      AuditAction = "password_reset_rejected"
)

// AuditLog represents a record of an authentication-relevant event
type AuditLog struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	UserID      *uuid.UUID  `json:"user_id" db:"user_id"` // nil when the subject account is unknown
	Action      AuditAction `json:"action" db:"action"`
	Description string      `json:"description" db:"description"`
	IPAddress   string      `json:"ip_address" db:"ip_address"`
	UserAgent   string      `json:"user_agent" db:"user_agent"` // truncated to 100 chars before storage
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// CreateAuditLogRequest represents the request to create a new audit log entry
type CreateAuditLogRequest struct {
	UserID      *uuid.UUID  `json:"user_id"`
	Action      AuditAction `json:"action" binding:"required"`
	Description string      `json:"description"`
	IPAddress   string      `json:"ip_address"`
	UserAgent   string      `json:"user_agent"`
}
