package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uxforge/maestro/pkg/adapters/redis"
)

func newTestLocker(t *testing.T) *redis.Locker {
	t.Helper()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewLocker(client, "maestro:")
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	locker := newTestLocker(t)

	unlock, err := locker.Lock(ctx, "sess-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	// Released lock is immediately re-acquirable.
	unlock2, err := locker.Lock(ctx, "sess-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_ContendedLockTimesOut(t *testing.T) {
	locker := newTestLocker(t)

	unlock, err := locker.Lock(context.Background(), "sess-1", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "sess-1", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_IndependentKeys(t *testing.T) {
	ctx := context.Background()
	locker := newTestLocker(t)

	unlockA, err := locker.Lock(ctx, "sess-a", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	// A held lock on one session never blocks another.
	unlockB, err := locker.Lock(ctx, "sess-b", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}
