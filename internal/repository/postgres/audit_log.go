package postgres

import (
	"context"
	"database/sql"
	"time"

	"authgate/internal/models"
	"authgate/internal/repository"

	"github.com/google/uuid"
)
type auditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a PostgreSQL-backed audit log repository
func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *models.CreateAuditLogRequest) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, description, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(),
		log.UserID,
		log.Action,
		log.Description,
		log.IPAddress,
		log.UserAgent,
	)
	return err
}

func (r *auditLogRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, user_id, action, description, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Description,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) CleanupOld(ctx context.Context, olderThan time.Duration) error {
	query := `DELETE FROM audit_logs WHERE created_at < $1`
	_, err := r.db.ExecContext(ctx, query, time.Now().Add(-olderThan))
	return err
}
