package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("load missing key", func(t *testing.T) {
		b := NewMemoryBackend()
		data, present, err := b.Load(ctx, RepeatKey(1))
		require.NoError(t, err)
		assert.False(t, present)
		assert.Nil(t, data)
	})

	t.Run("store then load", func(t *testing.T) {
		b := NewMemoryBackend()
		key := RepeatKey(2)
		require.NoError(t, b.Store(ctx, key, []byte("hello")))

		data, present, err := b.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, present)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("clear removes the key", func(t *testing.T) {
		b := NewMemoryBackend()
		key := RepeatKey(3)
		require.NoError(t, b.Store(ctx, key, []byte("x")))
		require.NoError(t, b.Clear(ctx, key))

		_, present, err := b.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, present)
	})

	t.Run("empty value is present", func(t *testing.T) {
		b := NewMemoryBackend()
		key := RepeatKey(4)
		require.NoError(t, b.Store(ctx, key, nil))

		data, present, err := b.Load(ctx, key)
		require.NoError(t, err)
		assert.True(t, present)
		assert.Empty(t, data)
	})

	t.Run("load copies out", func(t *testing.T) {
		b := NewMemoryBackend()
		key := RepeatKey(5)
		require.NoError(t, b.Store(ctx, key, []byte("abc")))

		data, _, err := b.Load(ctx, key)
		require.NoError(t, err)
		data[0] = 'z'

		again, _, err := b.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})
}

func TestMemoryBackendStats(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	key := RepeatKey(6)

	require.NoError(t, b.Store(ctx, key, []byte("v")))
	_, _, err := b.Load(ctx, key)
	require.NoError(t, err)
	_, _, err = b.Load(ctx, key)
	require.NoError(t, err)
	require.NoError(t, b.Clear(ctx, key))

	stats := b.Stats()
	assert.Equal(t, uint64(2), stats.Reads)
	assert.Equal(t, uint64(1), stats.Writes)
	assert.Equal(t, uint64(1), stats.Clears)

	b.ResetStats()
	assert.Equal(t, Stats{}, b.Stats())
}
