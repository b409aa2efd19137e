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
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunSessionStoreContract(t, store)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, redis.WithTTL(time.Minute))

	sess := domain.NewSession("ttl-session", time.Now().UTC())
	require.NoError(t, store.Save(ctx, sess))

	_, err := store.Load(ctx, "ttl-session")
	require.NoError(t, err)

	// Past the TTL the value is gone and List prunes the index entry.
	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "ttl-session")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "ttl-session")
}

func TestRedisStore_RoundTripPreservesDecision(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	sess := domain.NewSession("decided", time.Now().UTC())
	sess.Status = domain.StatusConfirming
	sess.Decision = &domain.Decision{
		Mode:       domain.ModeDesignPage,
		Confidence: 0.85,
		Parameters: map[string]any{"page_type": "landing"},
		Reasoning:  "full page scope",
	}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "decided")
	require.NoError(t, err)
	require.NotNil(t, loaded.Decision)
	assert.Equal(t, domain.ModeDesignPage, loaded.Decision.Mode)
	assert.InDelta(t, 0.85, loaded.Decision.Confidence, 1e-9)
	assert.Equal(t, "landing", loaded.Decision.Parameters["page_type"])
	assert.Equal(t, domain.StatusConfirming, loaded.Status)
}
