// Package vec implements storage-backed sequences: a growable vector and a
// fixed-capacity variant, both laid out as a length cell at the root key
// followed by a contiguous element chunk.
package vec

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/cellar/cell"
	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/kv"
	"github.com/hupe1980/cellar/lazy"
)

// ErrCapacity is returned by SmallVec.Push when the vector is full.
var ErrCapacity = errors.New("vec: capacity exhausted")

// Vec is a storage-backed growable vector.
//
// Layout: the length cell lives at the vector's root key, elements start at
// root+1, one footprint stride apart. Elements load lazily and write back
// only when mutated; out-of-range accesses return nil rather than touching
// the backend.
type Vec[T any] struct {
	len   *cell.SyncCell[uint32]
	elems *lazy.Map[uint32, T]
}

// New creates an unbound vector whose elements each occupy one cell.
func New[T any](backend kv.Backend, c codec.Codec) *Vec[T] {
	return NewWithFootprint[T](backend, c, 1)
}

// NewWithFootprint creates an unbound vector with the given per-element
// cell footprint.
func NewWithFootprint[T any](backend kv.Backend, c codec.Codec, footprint uint64) *Vec[T] {
	return &Vec[T]{
		len:   cell.New[uint32](backend, c),
		elems: lazy.NewChunk[T](backend, c, footprint),
	}
}

// Bind associates the vector with its root storage key.
func (v *Vec[T]) Bind(key kv.Key) {
	v.len.Bind(key)
	v.elems.Bind(key.Add(1))
}

// Len returns the number of elements in the vector.
func (v *Vec[T]) Len(ctx context.Context) (uint32, error) {
	n, err := v.len.Get(ctx)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

// IsEmpty reports whether the vector contains no elements.
func (v *Vec[T]) IsEmpty(ctx context.Context) (bool, error) {
	n, err := v.Len(ctx)
	return n == 0, err
}

// Get returns the element at index i, or nil if i is out of range.
func (v *Vec[T]) Get(ctx context.Context, i uint32) (*T, error) {
	n, err := v.Len(ctx)
	if err != nil || i >= n {
		return nil, err
	}
	return v.elems.Get(ctx, i)
}

// GetMut returns the element at index i for in-place mutation, or nil if i
// is out of range. The element is marked for write-back.
func (v *Vec[T]) GetMut(ctx context.Context, i uint32) (*T, error) {
	n, err := v.Len(ctx)
	if err != nil || i >= n {
		return nil, err
	}
	return v.elems.GetMut(ctx, i)
}

// MutateWith applies f to the element at index i in place and returns the
// result, or nil if i is out of range (f is not called then).
func (v *Vec[T]) MutateWith(ctx context.Context, i uint32, f func(*T)) (*T, error) {
	e, err := v.GetMut(ctx, i)
	if err != nil || e == nil {
		return nil, err
	}
	f(e)
	return e, nil
}

// Push appends an element. The write is cache-only; no backend read is
// needed for the new slot.
func (v *Vec[T]) Push(ctx context.Context, val T) error {
	n, err := v.Len(ctx)
	if err != nil {
		return err
	}
	v.elems.Put(n, &val)
	v.len.Set(n + 1)
	return nil
}

// Pop removes and returns the last element, or nil if the vector is empty.
func (v *Vec[T]) Pop(ctx context.Context) (*T, error) {
	n, err := v.Len(ctx)
	if err != nil || n == 0 {
		return nil, err
	}
	val, err := v.elems.Take(ctx, n-1)
	if err != nil {
		return nil, err
	}
	v.len.Set(n - 1)
	return val, nil
}

// Swap exchanges the elements at indices a and b. Out-of-range indices make
// the call fail; swapping an index with itself is a no-op.
func (v *Vec[T]) Swap(ctx context.Context, a, b uint32) error {
	n, err := v.Len(ctx)
	if err != nil {
		return err
	}
	if a >= n || b >= n {
		return fmt.Errorf("vec: swap %d, %d: index out of range (len %d)", a, b, n)
	}
	return v.elems.Swap(ctx, a, b)
}

// SwapRemove removes the element at index i in O(1) by swapping it with the
// last element first, then popping. Ordering of the remaining elements is
// not preserved. Returns nil if i is out of range.
func (v *Vec[T]) SwapRemove(ctx context.Context, i uint32) (*T, error) {
	n, err := v.Len(ctx)
	if err != nil || i >= n {
		return nil, err
	}
	if err := v.elems.Swap(ctx, i, n-1); err != nil {
		return nil, err
	}
	return v.Pop(ctx)
}

// ForEach calls f with each element in index order. Elements are loaded
// lazily; iteration stops at the first error.
func (v *Vec[T]) ForEach(ctx context.Context, f func(i uint32, val *T) error) error {
	n, err := v.Len(ctx)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		e, err := v.elems.Get(ctx, i)
		if err != nil {
			return err
		}
		if err := f(i, e); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes the length cell and every mutated element back.
func (v *Vec[T]) Flush(ctx context.Context) error {
	if err := v.len.Flush(ctx); err != nil {
		return err
	}
	return v.elems.Flush(ctx)
}

// Destroy eagerly clears every element cell and the length cell from the
// backend, leaving the cache empty. Unlike Flush this touches the backend
// immediately.
func (v *Vec[T]) Destroy(ctx context.Context) error {
	n, err := v.Len(ctx)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if _, err := v.elems.Take(ctx, i); err != nil {
			return err
		}
	}
	if err := v.elems.Flush(ctx); err != nil {
		return err
	}
	return v.len.Destroy(ctx)
}
