package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/school-finance/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T) (*Guard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter(context.Background(), "test", "finance:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	return NewGuard(adapter, DefaultConfig()), mr
}

func TestGuard_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("first post takes the lock", func(t *testing.T) {
		g, mr := setupGuard(t)

		require.NoError(t, g.Acquire(ctx, "invoice:create:tok"))
		assert.True(t, mr.Exists("finance:submission:lock:invoice:create:tok"))
	})

	t.Run("second post while in flight", func(t *testing.T) {
		g, _ := setupGuard(t)

		require.NoError(t, g.Acquire(ctx, "tok"))
		assert.ErrorIs(t, g.Acquire(ctx, "tok"), ErrSubmissionInFlight)
	})

	t.Run("post after completion", func(t *testing.T) {
		g, mr := setupGuard(t)

		require.NoError(t, g.Acquire(ctx, "tok"))
		require.NoError(t, g.Complete(ctx, "tok"))

		assert.False(t, mr.Exists("finance:submission:lock:tok"))
		assert.ErrorIs(t, g.Acquire(ctx, "tok"), ErrAlreadySubmitted)

		done, err := g.IsDone(ctx, "tok")
		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("released token can be posted again", func(t *testing.T) {
		g, _ := setupGuard(t)

		require.NoError(t, g.Acquire(ctx, "tok"))
		require.NoError(t, g.Release(ctx, "tok"))
		assert.NoError(t, g.Acquire(ctx, "tok"))
	})

	t.Run("lock expires", func(t *testing.T) {
		g, mr := setupGuard(t)

		require.NoError(t, g.Acquire(ctx, "tok"))
		mr.FastForward(31 * time.Second)
		assert.NoError(t, g.Acquire(ctx, "tok"))
	})

	t.Run("done marker expires", func(t *testing.T) {
		g, mr := setupGuard(t)

		require.NoError(t, g.Acquire(ctx, "tok"))
		require.NoError(t, g.Complete(ctx, "tok"))
		mr.FastForward(25 * time.Hour)

		done, err := g.IsDone(ctx, "tok")
		require.NoError(t, err)
		assert.False(t, done)
	})

	t.Run("redis down lets the submission through", func(t *testing.T) {
		g, mr := setupGuard(t)
		mr.Close()

		assert.NoError(t, g.Acquire(ctx, "tok"))
	})
}
