package vec

import (
	"context"
	"fmt"

	"github.com/hupe1980/cellar/cell"
	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/kv"
	"github.com/hupe1980/cellar/lazy"
)

// SmallVec is a vector with a fixed capacity chosen at construction time.
//
// Because the capacity bounds the element count, a SmallVec has a finite
// footprint (1 + capacity*elementFootprint cells) and can be embedded
// inline between other values by a bump allocator. Push fails with
// ErrCapacity instead of growing.
type SmallVec[T any] struct {
	cap   uint32
	elemF uint64
	len   *cell.SyncCell[uint32]
	elems *lazy.Map[uint32, T]
}

// NewSmall creates an unbound fixed-capacity vector whose elements each
// occupy one cell.
func NewSmall[T any](backend kv.Backend, c codec.Codec, capacity uint32) *SmallVec[T] {
	return NewSmallWithFootprint[T](backend, c, capacity, 1)
}

// NewSmallWithFootprint creates an unbound fixed-capacity vector with the
// given per-element cell footprint.
func NewSmallWithFootprint[T any](backend kv.Backend, c codec.Codec, capacity uint32, footprint uint64) *SmallVec[T] {
	if footprint == 0 {
		footprint = 1
	}
	return &SmallVec[T]{
		cap:   capacity,
		elemF: footprint,
		len:   cell.New[uint32](backend, c),
		elems: lazy.NewChunk[T](backend, c, footprint),
	}
}

// Footprint returns the number of contiguous cells the vector occupies:
// one length cell plus capacity element strides.
func (v *SmallVec[T]) Footprint() uint64 { return 1 + uint64(v.cap)*v.elemF }

// Cap returns the fixed capacity.
func (v *SmallVec[T]) Cap() uint32 { return v.cap }

// Bind associates the vector with its root storage key.
func (v *SmallVec[T]) Bind(key kv.Key) {
	v.len.Bind(key)
	v.elems.Bind(key.Add(1))
}

// Len returns the number of elements in the vector.
func (v *SmallVec[T]) Len(ctx context.Context) (uint32, error) {
	n, err := v.len.Get(ctx)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

// IsEmpty reports whether the vector contains no elements.
func (v *SmallVec[T]) IsEmpty(ctx context.Context) (bool, error) {
	n, err := v.Len(ctx)
	return n == 0, err
}

// Get returns the element at index i, or nil if i is out of range.
func (v *SmallVec[T]) Get(ctx context.Context, i uint32) (*T, error) {
	n, err := v.Len(ctx)
	if err != nil || i >= n {
		return nil, err
	}
	return v.elems.Get(ctx, i)
}

// GetMut returns the element at index i for in-place mutation, or nil if i
// is out of range.
func (v *SmallVec[T]) GetMut(ctx context.Context, i uint32) (*T, error) {
	n, err := v.Len(ctx)
	if err != nil || i >= n {
		return nil, err
	}
	return v.elems.GetMut(ctx, i)
}

// Push appends an element, failing with ErrCapacity when the vector is
// already full.
func (v *SmallVec[T]) Push(ctx context.Context, val T) error {
	n, err := v.Len(ctx)
	if err != nil {
		return err
	}
	if n >= v.cap {
		return ErrCapacity
	}
	v.elems.Put(n, &val)
	v.len.Set(n + 1)
	return nil
}

// Pop removes and returns the last element, or nil if the vector is empty.
func (v *SmallVec[T]) Pop(ctx context.Context) (*T, error) {
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

// Swap exchanges the elements at indices a and b.
func (v *SmallVec[T]) Swap(ctx context.Context, a, b uint32) error {
	n, err := v.Len(ctx)
	if err != nil {
		return err
	}
	if a >= n || b >= n {
		return fmt.Errorf("vec: swap %d, %d: index out of range (len %d)", a, b, n)
	}
	return v.elems.Swap(ctx, a, b)
}

// ForEach calls f with each element in index order.
func (v *SmallVec[T]) ForEach(ctx context.Context, f func(i uint32, val *T) error) error {
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
func (v *SmallVec[T]) Flush(ctx context.Context) error {
	if err := v.len.Flush(ctx); err != nil {
		return err
	}
	return v.elems.Flush(ctx)
}

// Destroy eagerly clears every element cell and the length cell.
func (v *SmallVec[T]) Destroy(ctx context.Context) error {
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
