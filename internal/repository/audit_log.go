package repository

import (
	"context"
	"time"

	"authgate/internal/models"

	"github.com/google/uuid"
)

// AuditLogRepository defines the interface for audit log operations
type AuditLogRepository interface {
	Create(ctx context.Context, log *models.CreateAuditLogRequest) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.AuditLog, error)
	CleanupOld(ctx context.Context, olderThan time.Duration) error
}
