package auth

import (
	"context"
	"time"

	"authgate/internal/models"
)

// The lockout state machine has two states: Unlocked (locked_until null or
// past) and Locked (locked_until in the future). It is evaluated after
// existence and verification checks, so unknown or unverified accounts never
// consume attempt budget, and before password comparison, so hashing work is
// not wasted on locked accounts.

// lockedUntil returns the unlock time when the user is currently locked.
func (s *Service) lockedUntil(user *models.User, now time.Time) (time.Time, bool) {
	if user.IsLocked(now) {
		return *user.LockedUntil, true
	}
	return time.Time{}, false
}

// recordLoginFailure drives the failure transition. The attempt counter is
// bumped with an atomic database increment, so concurrent failures cannot
// lose updates; crossing the threshold caps the counter and sets the unlock
// timestamp.
func (s *Service) recordLoginFailure(ctx context.Context, user *models.User, now time.Time) error {
	attempts, err := s.users.IncrementLockoutAttempts(ctx, user.ID)
	if err != nil {
		return err
	}

	max := s.config.Auth.MaxLoginAttempts
	if attempts >= max {
		until := now.Add(s.config.Auth.LockoutDuration)
		return s.users.Lock(ctx, user.ID, max, until)
	}
	return nil
}

// recordLoginSuccess drives the success transition. When the counter is
// already zero and no lockout is set, no write is issued at all.
func (s *Service) recordLoginSuccess(ctx context.Context, user *models.User) error {
	if user.LockoutAttempts == 0 && user.LockedUntil == nil {
		return nil
	}
	return s.users.ClearLockout(ctx, user.ID)
}
