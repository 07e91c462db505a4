package vec

import (
	"context"
	"testing"

	"github.com/hupe1980/cellar/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVec[T any](t *testing.T) (*Vec[T], *kv.MemoryBackend) {
	t.Helper()
	backend := kv.NewMemoryBackend()
	v := New[T](backend, nil)
	v.Bind(kv.RepeatKey(0x01))
	return v, backend
}

func TestVecPushPop(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVec[string](t)

	empty, err := v.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, v.Push(ctx, "a"))
	require.NoError(t, v.Push(ctx, "b"))
	require.NoError(t, v.Push(ctx, "c"))

	n, err := v.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), n)

	last, err := v.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "c", *last)

	n, err = v.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)
}

func TestVecPopEmpty(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVec[int](t)

	got, err := v.Pop(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVecGetOutOfRange(t *testing.T) {
	ctx := context.Background()
	v, backend := newTestVec[int](t)

	require.NoError(t, v.Push(ctx, 1))
	backend.ResetStats()

	got, err := v.Get(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, uint64(0), backend.Stats().Reads, "bounds check precedes any load")
}

func TestVecMutation(t *testing.T) {
	ctx := context.Background()
	v, backend := newTestVec[int](t)

	require.NoError(t, v.Push(ctx, 10))
	require.NoError(t, v.Push(ctx, 20))

	p, err := v.GetMut(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, p)
	*p = 11

	_, err = v.MutateWith(ctx, 1, func(x *int) { *x = 21 })
	require.NoError(t, err)

	require.NoError(t, v.Flush(ctx))

	fresh := New[int](backend, nil)
	fresh.Bind(kv.RepeatKey(0x01))
	for i, want := range []int{11, 21} {
		got, err := fresh.Get(ctx, uint32(i))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	}
}

func TestVecSwap(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVec[string](t)

	require.NoError(t, v.Push(ctx, "a"))
	require.NoError(t, v.Push(ctx, "b"))

	require.NoError(t, v.Swap(ctx, 0, 1))
	first, err := v.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "b", *first)

	err = v.Swap(ctx, 0, 9)
	assert.Error(t, err)
}

func TestVecSwapRemove(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVec[string](t)

	for _, s := range []string{"a", "b", "c", "d"} {
		require.NoError(t, v.Push(ctx, s))
	}

	removed, err := v.SwapRemove(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "b", *removed)

	n, err := v.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), n)

	moved, err := v.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, moved)
	assert.Equal(t, "d", *moved, "last element takes the vacated slot")
}

func TestVecForEach(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVec[int](t)

	for i := 0; i < 5; i++ {
		require.NoError(t, v.Push(ctx, i*2))
	}

	var got []int
	err := v.ForEach(ctx, func(i uint32, val *int) error {
		got = append(got, *val)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6, 8}, got)
}

func TestVecFlushRoundTrip(t *testing.T) {
	ctx := context.Background()
	v, backend := newTestVec[int](t)

	for i := 0; i < 10; i++ {
		require.NoError(t, v.Push(ctx, i))
	}
	backend.ResetStats()
	require.NoError(t, v.Flush(ctx))
	// Ten elements plus the length cell.
	assert.Equal(t, uint64(11), backend.Stats().Writes)

	fresh := New[int](backend, nil)
	fresh.Bind(kv.RepeatKey(0x01))
	n, err := fresh.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(10), n)
	for i := uint32(0); i < n; i++ {
		got, err := fresh.Get(ctx, i)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int(i), *got)
	}
}

func TestVecDestroy(t *testing.T) {
	ctx := context.Background()
	v, backend := newTestVec[int](t)

	for i := 0; i < 5; i++ {
		require.NoError(t, v.Push(ctx, i))
	}
	require.NoError(t, v.Flush(ctx))
	require.Equal(t, 6, backend.Len())

	require.NoError(t, v.Destroy(ctx))
	assert.Equal(t, 0, backend.Len())
}

func TestSmallVecCapacity(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	v := NewSmall[int](backend, nil, 3)
	v.Bind(kv.RepeatKey(0x01))

	assert.Equal(t, uint32(3), v.Cap())
	assert.Equal(t, uint64(4), v.Footprint())

	for i := 0; i < 3; i++ {
		require.NoError(t, v.Push(ctx, i))
	}
	err := v.Push(ctx, 99)
	assert.ErrorIs(t, err, ErrCapacity)

	// Popping frees a slot again.
	_, err = v.Pop(ctx)
	require.NoError(t, err)
	require.NoError(t, v.Push(ctx, 42))

	got, err := v.Get(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 42, *got)
}

func TestSmallVecFlushRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	v := NewSmall[string](backend, nil, 8)
	v.Bind(kv.RepeatKey(0x02))

	require.NoError(t, v.Push(ctx, "x"))
	require.NoError(t, v.Push(ctx, "y"))
	require.NoError(t, v.Flush(ctx))

	fresh := NewSmall[string](backend, nil, 8)
	fresh.Bind(kv.RepeatKey(0x02))
	n, err := fresh.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(2), n)

	got, err := fresh.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "y", *got)
}
