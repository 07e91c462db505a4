// Package binheap implements a storage-backed binary heap ordered by a
// caller-supplied comparison function.
package binheap

import (
	"context"

	"github.com/hupe1980/cellar/cell"
	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/kv"
	"github.com/hupe1980/cellar/lazy"
)

// Heap is a storage-backed binary heap.
//
// The element whose Less orders it before all others sits at index 0 and is
// returned by Peek and Pop. With a "less than" comparison this is a
// min-heap; invert the comparison for a max-heap.
//
// Layout matches the other collections: length cell at the root key,
// elements from root+1. Sift operations touch O(log n) cells per Push or
// Pop; only the cells actually moved are marked for write-back.
type Heap[T any] struct {
	less  func(a, b T) bool
	len   *cell.SyncCell[uint32]
	elems *lazy.Map[uint32, T]
}

// New creates an unbound heap ordered by less.
func New[T any](backend kv.Backend, c codec.Codec, less func(a, b T) bool) *Heap[T] {
	return &Heap[T]{
		less:  less,
		len:   cell.New[uint32](backend, c),
		elems: lazy.NewChunk[T](backend, c, 1),
	}
}

// Bind associates the heap with its root storage key.
func (h *Heap[T]) Bind(key kv.Key) {
	h.len.Bind(key)
	h.elems.Bind(key.Add(1))
}

// Len returns the number of elements in the heap.
func (h *Heap[T]) Len(ctx context.Context) (uint32, error) {
	n, err := h.len.Get(ctx)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

// IsEmpty reports whether the heap contains no elements.
func (h *Heap[T]) IsEmpty(ctx context.Context) (bool, error) {
	n, err := h.Len(ctx)
	return n == 0, err
}

// Peek returns the top element without removing it, or nil if the heap is
// empty.
func (h *Heap[T]) Peek(ctx context.Context) (*T, error) {
	n, err := h.Len(ctx)
	if err != nil || n == 0 {
		return nil, err
	}
	return h.elems.Get(ctx, 0)
}

// Push adds an element and restores the heap order by sifting it up.
func (h *Heap[T]) Push(ctx context.Context, val T) error {
	n, err := h.Len(ctx)
	if err != nil {
		return err
	}
	h.elems.Put(n, &val)
	h.len.Set(n + 1)
	return h.siftUp(ctx, n)
}

// Pop removes and returns the top element, or nil if the heap is empty.
// The last element moves to the root and sifts down.
func (h *Heap[T]) Pop(ctx context.Context) (*T, error) {
	n, err := h.Len(ctx)
	if err != nil || n == 0 {
		return nil, err
	}
	if err := h.elems.Swap(ctx, 0, n-1); err != nil {
		return nil, err
	}
	top, err := h.elems.Take(ctx, n-1)
	if err != nil {
		return nil, err
	}
	h.len.Set(n - 1)
	if err := h.siftDown(ctx, 0, n-1); err != nil {
		return nil, err
	}
	return top, nil
}

func (h *Heap[T]) siftUp(ctx context.Context, i uint32) error {
	for i > 0 {
		parent := (i - 1) / 2
		child, err := h.elems.Get(ctx, i)
		if err != nil {
			return err
		}
		par, err := h.elems.Get(ctx, parent)
		if err != nil {
			return err
		}
		if !h.less(*child, *par) {
			return nil
		}
		if err := h.elems.Swap(ctx, i, parent); err != nil {
			return err
		}
		i = parent
	}
	return nil
}

func (h *Heap[T]) siftDown(ctx context.Context, i, n uint32) error {
	for {
		left := 2*i + 1
		if left >= n {
			return nil
		}
		best := left
		if right := left + 1; right < n {
			l, err := h.elems.Get(ctx, left)
			if err != nil {
				return err
			}
			r, err := h.elems.Get(ctx, right)
			if err != nil {
				return err
			}
			if h.less(*r, *l) {
				best = right
			}
		}
		cur, err := h.elems.Get(ctx, i)
		if err != nil {
			return err
		}
		cand, err := h.elems.Get(ctx, best)
		if err != nil {
			return err
		}
		if !h.less(*cand, *cur) {
			return nil
		}
		if err := h.elems.Swap(ctx, i, best); err != nil {
			return err
		}
		i = best
	}
}

// Flush writes the length cell and every mutated element back.
func (h *Heap[T]) Flush(ctx context.Context) error {
	if err := h.len.Flush(ctx); err != nil {
		return err
	}
	return h.elems.Flush(ctx)
}

// Destroy eagerly clears every element cell and the length cell.
func (h *Heap[T]) Destroy(ctx context.Context) error {
	n, err := h.Len(ctx)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if _, err := h.elems.Take(ctx, i); err != nil {
			return err
		}
	}
	if err := h.elems.Flush(ctx); err != nil {
		return err
	}
	return h.len.Destroy(ctx)
}
