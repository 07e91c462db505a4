// Package cell implements the synchronized storage cell: a single typed
// value bound to one backend key, with read-optimized caching and explicit
// write-back.
package cell

import (
	"context"
	"fmt"

	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/internal/scratch"
	"github.com/hupe1980/cellar/kv"
)

// SyncCell is a lazily-loaded, write-back cached view of one storage cell.
//
// Reads hit the backend at most once between flushes; Set and Clear never
// read the backend at all. Mutations stay in the cache until Flush pushes
// them back. Two SyncCells bound to the same key each have a private cache
// and are not kept coherent; reconcile via Flush on one side and a fresh
// handle on the other.
type SyncCell[T any] struct {
	backend kv.Backend
	codec   codec.Codec
	key     kv.Key
	bound   bool
	cache   cache[T]
	enc     *scratch.Buffer
}

// New creates an unbound cell. Bind must be called before any operation
// that touches the backend.
func New[T any](backend kv.Backend, c codec.Codec) *SyncCell[T] {
	if c == nil {
		c = codec.Default
	}
	return &SyncCell[T]{
		backend: backend,
		codec:   c,
		enc:     scratch.NewBuffer(64),
	}
}

// Bind associates the cell with its storage key.
func (s *SyncCell[T]) Bind(key kv.Key) {
	s.key = key
	s.bound = true
}

// Key returns the bound storage key, if any.
func (s *SyncCell[T]) Key() (kv.Key, bool) {
	return s.key, s.bound
}

// load syncs the cache from the backend. Called only while desynced.
func (s *SyncCell[T]) load(ctx context.Context) error {
	if !s.bound {
		return fmt.Errorf("cell: load: %w", kv.ErrUnbound)
	}
	data, ok, err := s.backend.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("cell: load key %s: %w", s.key, err)
	}
	if !ok {
		s.cache.update(nil)
		return nil
	}
	v := new(T)
	if err := s.codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cell: key %s: %w: %w", s.key, kv.ErrDecode, err)
	}
	s.cache.update(v)
	return nil
}

// ensure makes the cache readable, loading from the backend if needed.
func (s *SyncCell[T]) ensure(ctx context.Context) error {
	if s.cache.synced() {
		return nil
	}
	return s.load(ctx)
}

// Get returns the cell's value, or nil if the cell is empty.
//
// The first Get after construction (or after a fresh handle is bound) loads
// from the backend; subsequent Gets are served from the cache. The returned
// pointer stays valid until the value is replaced or cleared; treat it as
// read-only and use GetMut for mutation.
func (s *SyncCell[T]) Get(ctx context.Context) (*T, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	v, _ := s.cache.value()
	return v, nil
}

// GetMut returns the cell's value for in-place mutation, or nil if empty.
//
// Handing out a mutable reference conservatively marks the cell dirty, even
// if the caller never writes through it and even if the cell is empty; an
// empty cell touched through GetMut clears its backend slot on the next
// Flush.
func (s *SyncCell[T]) GetMut(ctx context.Context) (*T, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	s.cache.markDirty()
	v, _ := s.cache.value()
	return v, nil
}

// Set replaces the cell's value without reading the backend.
func (s *SyncCell[T]) Set(v T) {
	s.cache.write(&v)
}

// Clear empties the cell without reading the backend. The backing storage
// is released on the next Flush.
func (s *SyncCell[T]) Clear() {
	s.cache.write(nil)
}

// MutateWith applies f to the cell's value in place and returns the result,
// or nil if the cell is empty (f is not called then).
func (s *SyncCell[T]) MutateWith(ctx context.Context, f func(*T)) (*T, error) {
	v, err := s.GetMut(ctx)
	if err != nil || v == nil {
		return nil, err
	}
	f(v)
	return v, nil
}

// Flush writes dirty cached state back to the backend.
//
// A dirty value is encoded and stored; a dirty empty cell clears its
// backend slot. Clean cells (including freshly flushed ones) perform zero
// backend operations, so Flush is idempotent.
func (s *SyncCell[T]) Flush(ctx context.Context) error {
	if !s.cache.dirty {
		return nil
	}
	if !s.bound {
		return fmt.Errorf("cell: flush: %w", kv.ErrUnbound)
	}
	v, _ := s.cache.value()
	if v == nil {
		if err := s.backend.Clear(ctx, s.key); err != nil {
			return fmt.Errorf("cell: clear key %s: %w", s.key, err)
		}
		s.cache.markClean()
		return nil
	}

	buf, err := codec.AppendTo(s.codec, s.enc.Take(), v)
	if err != nil {
		return fmt.Errorf("cell: encode key %s: %w", s.key, err)
	}
	err = s.backend.Store(ctx, s.key, buf)
	s.enc.Put(buf)
	if err != nil {
		return fmt.Errorf("cell: store key %s: %w", s.key, err)
	}
	s.cache.markClean()
	return nil
}

// Destroy eagerly releases the cell's backing storage, independent of its
// dirty state. This is the explicit erasure obligation of a cell that goes
// out of use; unbound cells have nothing to erase.
func (s *SyncCell[T]) Destroy(ctx context.Context) error {
	if !s.bound {
		return nil
	}
	if err := s.backend.Clear(ctx, s.key); err != nil {
		return fmt.Errorf("cell: destroy key %s: %w", s.key, err)
	}
	s.cache.update(nil)
	return nil
}
