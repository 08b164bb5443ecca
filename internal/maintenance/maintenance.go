// Package maintenance runs scheduled cleanup of expired tokens and old audit rows
package maintenance

import (
	"context"
	"fmt"
	"log"
	"time"

	"authgate/internal/repository"

	"github.com/robfig/cron/v3"
)

// Config controls the purge schedule and audit retention
type Config struct {
	// Schedule in cron format (e.g. "0 * * * *" for hourly)
	Schedule string
	// AuditRetention is how long audit log rows are kept
	AuditRetention time.Duration
}

// Purger deletes expired verification tokens, expired reset codes, and
// audit rows past the retention window on a cron schedule.
type Purger struct {
	config        Config
	verifications repository.EmailVerificationRepository
	resets        repository.PasswordResetRepository
	audit         repository.AuditLogRepository
	cron          *cron.Cron
}

// NewPurger creates a new purger with the given repositories
func NewPurger(
	cfg Config,
	verifications repository.EmailVerificationRepository,
	resets repository.PasswordResetRepository,
	audit repository.AuditLogRepository,
) *Purger {
	// Create a new cron scheduler with seconds disabled
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Purger{
		config:        cfg,
		verifications: verifications,
		resets:        resets,
		audit:         audit,
		cron:          c,
	}
}

// Run executes a single purge pass
func (p *Purger) Run(ctx context.Context) error {
	now := time.Now()

	deleted, err := p.verifications.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to purge verification tokens: %w", err)
	}
	if deleted > 0 {
		log.Printf("Purged %d expired verification tokens", deleted)
	}

	deleted, err = p.resets.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to purge reset codes: %w", err)
	}
	if deleted > 0 {
		log.Printf("Purged %d expired reset codes", deleted)
	}

	if p.config.AuditRetention > 0 {
		if err := p.audit.CleanupOld(ctx, p.config.AuditRetention); err != nil {
			return fmt.Errorf("failed to purge audit logs: %w", err)
		}
	}

	return nil
}

// Start schedules the purge and blocks until the context is cancelled
func (p *Purger) Start(ctx context.Context) error {
	schedule := p.config.Schedule
	if schedule == "" {
		schedule = "0 * * * *"
	}

	_, err := p.cron.AddFunc(schedule, func() {
		if err := p.Run(ctx); err != nil {
			log.Printf("Error running maintenance purge: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance purge: %w", err)
	}

	p.cron.Start()
	log.Printf("Maintenance purge scheduled with schedule %s", schedule)

	// Wait for context cancellation
	<-ctx.Done()
	log.Println("Stopping maintenance purge...")
	p.cron.Stop()

	return nil
}
