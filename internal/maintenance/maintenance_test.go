package maintenance

import (
	"context"
	"testing"
	"time"

	"authgate/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPurgeRemovesExpiredRecords(t *testing.T) {
	ctx := context.Background()
	verify := testutil.NewEmailVerificationRepository()
	resets := testutil.NewPasswordResetRepository()
	userID := uuid.New()

	_, err := verify.Create(ctx, userID, "hash-live", time.Now().Add(5*time.Minute))
	require.NoError(t, err)
	_, err = verify.Create(ctx, userID, "hash-dead", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = resets.Create(ctx, userID, "otp-dead", "salt", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	purger := NewPurger(Config{AuditRetention: time.Hour}, verify, resets, testutil.NewAuditLogRepository())
	require.NoError(t, purger.Run(ctx))

	// The live token survives, the expired ones are gone.
	_, err = verify.GetByTokenHash(ctx, "hash-live")
	require.NoError(t, err)
	_, err = verify.GetByTokenHash(ctx, "hash-dead")
	require.Error(t, err)
	_, err = resets.GetLatestUnused(ctx, userID)
	require.Error(t, err)
}
