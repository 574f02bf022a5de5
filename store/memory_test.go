package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-userauth"
	"github.com/goliatone/go-userauth/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get round trips", func(t *testing.T) {
		m := store.NewMemory()

		require.NoError(t, m.Set(ctx, "acc-1", `{"id":"acc-1"}`, 0))

		got, err := m.Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"acc-1"}`, got)
	})

	t.Run("missing key reports session not found", func(t *testing.T) {
		m := store.NewMemory()

		_, err := m.Get(ctx, "ghost")
		assert.ErrorIs(t, err, userauth.ErrSessionNotFound)
	})

	t.Run("last writer wins per key", func(t *testing.T) {
		m := store.NewMemory()

		require.NoError(t, m.Set(ctx, "acc-1", "first", 0))
		require.NoError(t, m.Set(ctx, "acc-1", "second", 0))

		got, err := m.Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		m := store.NewMemory()

		require.NoError(t, m.Set(ctx, "acc-1", "value", 0))
		require.NoError(t, m.Delete(ctx, "acc-1"))
		require.NoError(t, m.Delete(ctx, "acc-1"))

		_, err := m.Get(ctx, "acc-1")
		assert.ErrorIs(t, err, userauth.ErrSessionNotFound)
	})

	t.Run("entries expire after their ttl", func(t *testing.T) {
		now := time.Now()
		m := store.NewMemory().WithClock(func() time.Time { return now })

		require.NoError(t, m.Set(ctx, "acc-1", "value", time.Hour))

		got, err := m.Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "value", got)

		now = now.Add(2 * time.Hour)

		_, err = m.Get(ctx, "acc-1")
		assert.ErrorIs(t, err, userauth.ErrSessionNotFound)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		now := time.Now()
		m := store.NewMemory().WithClock(func() time.Time { return now })

		require.NoError(t, m.Set(ctx, "acc-1", "value", 0))

		now = now.Add(1000 * time.Hour)

		got, err := m.Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "value", got)
	})
}
