package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const checkInAttemptPrefix = "permitgate:checkin:failures:"

// CheckInAttemptLimiter counts failed check-in codes in Redis. A key is locked
// once it reaches maxFailures; the counter expires window after the first
// failure, which also lifts the lock.
type CheckInAttemptLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

func NewCheckInAttemptLimiter(client *redis.Client, maxFailures int, window time.Duration) *CheckInAttemptLimiter {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &CheckInAttemptLimiter{
		client:      client,
		maxFailures: maxFailures,
		window:      window,
	}
}

func (l *CheckInAttemptLimiter) IsLocked(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, l.buildKey(key)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read check-in failures: %w", err)
	}
	return count >= l.maxFailures, nil
}

// RecordFailure increments the counter and returns the new count.
func (l *CheckInAttemptLimiter) RecordFailure(ctx context.Context, key string) (int, error) {
	redisKey := l.buildKey(key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to record check-in failure: %w", err)
	}
	// the window is anchored at the first failure
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return 0, fmt.Errorf("failed to set check-in failure window: %w", err)
		}
	}
	return int(count), nil
}

func (l *CheckInAttemptLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset check-in failures: %w", err)
	}
	return nil
}

func (l *CheckInAttemptLimiter) buildKey(key string) string {
	return checkInAttemptPrefix + key
}
