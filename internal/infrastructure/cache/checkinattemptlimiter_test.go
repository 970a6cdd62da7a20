package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, max int, window time.Duration) (*CheckInAttemptLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCheckInAttemptLimiter(client, max, window), mr
}

func TestCheckInAttemptLimiter_LocksAtThreshold(t *testing.T) {
	limiter, _ := setupLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		locked, err := limiter.IsLocked(ctx, "permit:7")
		require.NoError(t, err)
		assert.False(t, locked, "attempt %d", i)

		count, err := limiter.RecordFailure(ctx, "permit:7")
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	locked, err := limiter.IsLocked(ctx, "permit:7")
	require.NoError(t, err)
	assert.True(t, locked)

	other, err := limiter.IsLocked(ctx, "permit:8")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestCheckInAttemptLimiter_WindowStartsAtFirstFailure(t *testing.T) {
	limiter, mr := setupLimiter(t, 2, time.Minute)
	ctx := context.Background()

	_, err := limiter.RecordFailure(ctx, "permit:1")
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)
	_, err = limiter.RecordFailure(ctx, "permit:1")
	require.NoError(t, err)

	locked, err := limiter.IsLocked(ctx, "permit:1")
	require.NoError(t, err)
	assert.True(t, locked)

	mr.FastForward(25 * time.Second)
	locked, err = limiter.IsLocked(ctx, "permit:1")
	require.NoError(t, err)
	assert.False(t, locked, "lock lifts once the first failure leaves the window")
}

func TestCheckInAttemptLimiter_Reset(t *testing.T) {
	limiter, mr := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_, err := limiter.RecordFailure(ctx, "permit:2")
	require.NoError(t, err)
	require.NoError(t, limiter.Reset(ctx, "permit:2"))

	assert.False(t, mr.Exists(checkInAttemptPrefix+"permit:2"))
	locked, err := limiter.IsLocked(ctx, "permit:2")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestCheckInAttemptLimiter_RedisDown(t *testing.T) {
	limiter, mr := setupLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := limiter.IsLocked(context.Background(), "permit:3")
	assert.Error(t, err)
	_, err = limiter.RecordFailure(context.Background(), "permit:3")
	assert.Error(t, err)
}
