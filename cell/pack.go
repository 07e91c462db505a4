package cell

import (
	"context"

	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/kv"
)

// Pack forces packed layout on a composite value: the entire value is
// encoded into exactly one storage cell in a single codec pass.
//
// The trade-off against spread layout (one key per leaf field) is
// granularity: packing costs only one key, but touching any field reads and
// writes the whole blob. Pack carries the same dirty/flush/erase-on-destroy
// discipline as SyncCell and its footprint is fixed at one cell.
type Pack[T any] struct {
	cell *SyncCell[T]
}

// NewPack creates an unbound packed value.
func NewPack[T any](backend kv.Backend, c codec.Codec) *Pack[T] {
	return &Pack[T]{cell: New[T](backend, c)}
}

// Footprint returns the number of storage cells a Pack occupies: always 1.
func (p *Pack[T]) Footprint() uint64 { return 1 }

// Bind associates the packed value with its storage key.
func (p *Pack[T]) Bind(key kv.Key) { p.cell.Bind(key) }

// Key returns the bound storage key, if any.
func (p *Pack[T]) Key() (kv.Key, bool) { return p.cell.Key() }

// Get returns the packed value, or nil if empty.
func (p *Pack[T]) Get(ctx context.Context) (*T, error) { return p.cell.Get(ctx) }

// GetMut returns the packed value for in-place mutation, marking it dirty.
func (p *Pack[T]) GetMut(ctx context.Context) (*T, error) { return p.cell.GetMut(ctx) }

// Set replaces the packed value without reading the backend.
func (p *Pack[T]) Set(v T) { p.cell.Set(v) }

// Clear empties the packed value without reading the backend.
func (p *Pack[T]) Clear() { p.cell.Clear() }

// MutateWith applies f to the packed value in place and returns the result.
func (p *Pack[T]) MutateWith(ctx context.Context, f func(*T)) (*T, error) {
	return p.cell.MutateWith(ctx, f)
}

// Flush writes the packed value back if dirty.
func (p *Pack[T]) Flush(ctx context.Context) error { return p.cell.Flush(ctx) }

// Destroy eagerly releases the packed value's single backing cell.
func (p *Pack[T]) Destroy(ctx context.Context) error { return p.cell.Destroy(ctx) }
