package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/api/metrics"
)

// LoginThrottle tracks failed login attempts per account in Redis.
// Key formats:
//
//	login_fail:<user_id>  failure counter, expires with the attempt window
//	login_lock:<user_id>  lock marker, expires when the lockout lifts
type LoginThrottle struct {
	client       *redis.Client
	maxAttempts  int
	window       time.Duration
	lockDuration time.Duration
}

// NewLoginThrottle creates a throttle locking an account for lockDuration
// after maxAttempts failures inside window. Zero values fall back to
// 5 attempts / 15 minutes.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window, lockDuration time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if lockDuration <= 0 {
		lockDuration = 15 * time.Minute
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window, lockDuration: lockDuration}
}

func failKey(userID string) string { return "login_fail:" + userID }
func lockKey(userID string) string { return "login_lock:" + userID }

// IsLocked reports whether the account is currently locked out.
func (t *LoginThrottle) IsLocked(ctx context.Context, userID string) (bool, error) {
	n, err := t.client.Exists(ctx, lockKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("lockout check: %w", err)
	}
	return n > 0, nil
}

// RecordFailure increments the failure counter and reports whether the
// account just crossed the lockout threshold.
func (t *LoginThrottle) RecordFailure(ctx context.Context, userID string) (bool, error) {
	key := failKey(userID)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("record login failure: %w", err)
	}
	if count == 1 {
		// First failure starts the attempt window.
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("set failure window: %w", err)
		}
	}
	if count < int64(t.maxAttempts) {
		return false, nil
	}

	if err := t.client.Set(ctx, lockKey(userID), "1", t.lockDuration).Err(); err != nil {
		return false, fmt.Errorf("set lockout: %w", err)
	}
	metrics.LoginLockoutsTotal.Inc()
	return true, nil
}

// Reset clears the counter and any lock after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, userID string) error {
	if err := t.client.Del(ctx, failKey(userID), lockKey(userID)).Err(); err != nil {
		return fmt.Errorf("reset login throttle: %w", err)
	}
	return nil
}
