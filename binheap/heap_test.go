package binheap

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/hupe1980/cellar/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMinHeap(t *testing.T) (*Heap[int], *kv.MemoryBackend) {
	t.Helper()
	backend := kv.NewMemoryBackend()
	h := New[int](backend, nil, func(a, b int) bool { return a < b })
	h.Bind(kv.RepeatKey(0x01))
	return h, backend
}

func TestHeapPushPop(t *testing.T) {
	ctx := context.Background()
	h, _ := newMinHeap(t)

	for _, v := range []int{5, 1, 4, 2, 3} {
		require.NoError(t, h.Push(ctx, v))
	}

	n, err := h.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), n)

	for want := 1; want <= 5; want++ {
		got, err := h.Pop(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	}

	empty, err := h.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestHeapPeek(t *testing.T) {
	ctx := context.Background()
	h, _ := newMinHeap(t)

	top, err := h.Peek(ctx)
	require.NoError(t, err)
	assert.Nil(t, top, "empty heap has no top")

	require.NoError(t, h.Push(ctx, 9))
	require.NoError(t, h.Push(ctx, 3))

	top, err = h.Peek(ctx)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, 3, *top)

	n, err := h.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n, "peek must not remove")
}

func TestHeapPopEmpty(t *testing.T) {
	ctx := context.Background()
	h, _ := newMinHeap(t)

	got, err := h.Pop(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHeapMaxOrdering(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	h := New[int](backend, nil, func(a, b int) bool { return a > b })
	h.Bind(kv.RepeatKey(0x01))

	for _, v := range []int{2, 8, 5} {
		require.NoError(t, h.Push(ctx, v))
	}
	top, err := h.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, 8, *top)
}

func TestHeapRandomized(t *testing.T) {
	ctx := context.Background()
	h, _ := newMinHeap(t)

	rng := rand.New(rand.NewSource(1))
	input := make([]int, 64)
	for i := range input {
		input[i] = rng.Intn(1000)
		require.NoError(t, h.Push(ctx, input[i]))
	}
	sort.Ints(input)

	for _, want := range input {
		got, err := h.Pop(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	}
}

func TestHeapFlushRoundTrip(t *testing.T) {
	ctx := context.Background()
	h, backend := newMinHeap(t)

	for _, v := range []int{7, 3, 9, 1} {
		require.NoError(t, h.Push(ctx, v))
	}
	require.NoError(t, h.Flush(ctx))

	fresh := New[int](backend, nil, func(a, b int) bool { return a < b })
	fresh.Bind(kv.RepeatKey(0x01))

	for _, want := range []int{1, 3, 7, 9} {
		got, err := fresh.Pop(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	}
}

func TestHeapDestroy(t *testing.T) {
	ctx := context.Background()
	h, backend := newMinHeap(t)

	for _, v := range []int{4, 2, 6} {
		require.NoError(t, h.Push(ctx, v))
	}
	require.NoError(t, h.Flush(ctx))
	require.Equal(t, 4, backend.Len())

	require.NoError(t, h.Destroy(ctx))
	assert.Equal(t, 0, backend.Len())
}
