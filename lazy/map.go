// Package lazy implements the lazily-loaded cell cache that the collection
// types are built on: many storage cells addressed by an arbitrary key type,
// each loaded at most once and written back only when mutated.
package lazy

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/internal/scratch"
	"github.com/hupe1980/cellar/kv"
)

// Map is a cache of storage cells addressed by keys of type K.
//
// Entries load lazily on first access and are cached for the lifetime of
// the handle. Cached entries sit behind stable heap pointers: a reference
// obtained from Get or GetMut for one key remains valid however many other
// keys are touched afterwards.
//
// A Map constructed with New is unbound; it must be bound to an offset key
// before any entry can be loaded or flushed. Like every handle in this
// module, two Maps over the same offset key have independent caches.
type Map[K comparable, V any] struct {
	backend kv.Backend
	codec   codec.Codec
	mapping Mapping[K]

	key   *kv.Key // offset key; nil while unbound
	cache map[K]*Entry[V]
	enc   *scratch.Buffer
}

// New creates an unbound lazy map with the given key mapping.
func New[K comparable, V any](backend kv.Backend, c codec.Codec, mapping Mapping[K]) *Map[K, V] {
	if c == nil {
		c = codec.Default
	}
	return &Map[K, V]{
		backend: backend,
		codec:   c,
		mapping: mapping,
		cache:   make(map[K]*Entry[V]),
		enc:     scratch.NewBuffer(64),
	}
}

// NewChunk creates an unbound lazy chunk: a Map addressed by uint32 index
// over a contiguous range of cells, footprint cells per element.
func NewChunk[V any](backend kv.Backend, c codec.Codec, footprint uint64) *Map[uint32, V] {
	return New[uint32, V](backend, c, IndexMapping{Footprint: footprint})
}

// Bind associates the map with its offset key.
func (m *Map[K, V]) Bind(key kv.Key) {
	m.key = &key
}

// Key returns the map's offset key, if bound.
func (m *Map[K, V]) Key() (kv.Key, bool) {
	if m.key == nil {
		return kv.Key{}, false
	}
	return *m.key, true
}

// KeyAt returns the storage key of the entry at k. Addressing only; returns
// ok=false if the map itself is unbound.
func (m *Map[K, V]) KeyAt(k K) (kv.Key, bool) {
	if m.key == nil {
		return kv.Key{}, false
	}
	return m.mapping.StorageKey(*m.key, k), true
}

// ensure returns the cached entry for k, loading it from the backend first
// if this is the first touch of k through this handle.
func (m *Map[K, V]) ensure(ctx context.Context, k K) (*Entry[V], error) {
	if e, ok := m.cache[k]; ok {
		return e, nil
	}
	storageKey, ok := m.KeyAt(k)
	if !ok {
		return nil, fmt.Errorf("lazy: load: %w", kv.ErrUnbound)
	}
	data, present, err := m.backend.Load(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("lazy: load key %s: %w", storageKey, err)
	}
	e := &Entry[V]{}
	if present {
		v := new(V)
		if err := m.codec.Unmarshal(data, v); err != nil {
			return nil, fmt.Errorf("lazy: key %s: %w: %w", storageKey, kv.ErrDecode, err)
		}
		e.val = v
	}
	m.cache[k] = e
	return e, nil
}

// Get returns the value at k, or nil if the entry is empty.
// Loads the entry lazily on first access.
func (m *Map[K, V]) Get(ctx context.Context, k K) (*V, error) {
	e, err := m.ensure(ctx, k)
	if err != nil {
		return nil, err
	}
	return e.Value(), nil
}

// GetMut returns the value at k for in-place mutation, marking the entry
// mutated even when it is empty.
func (m *Map[K, V]) GetMut(ctx context.Context, k K) (*V, error) {
	e, err := m.ensure(ctx, k)
	if err != nil {
		return nil, err
	}
	return e.ValueMut(), nil
}

// Take removes and returns the value at k, or nil if the entry is empty.
// The backing cell is cleared on the next Flush.
func (m *Map[K, V]) Take(ctx context.Context, k K) (*V, error) {
	e, err := m.ensure(ctx, k)
	if err != nil {
		return nil, err
	}
	return e.Take(), nil
}

// Put inserts or replaces the entry at k without reading the backend.
// A nil value removes the entry's value.
//
// Prefer Put over PutGet when the old value is not needed: Put never costs
// a backend read.
func (m *Map[K, V]) Put(k K, v *V) {
	if e, ok := m.cache[k]; ok {
		e.Put(v)
		return
	}
	m.cache[k] = &Entry[V]{val: v, mutated: true}
}

// PutGet replaces the value at k and returns the old value, loading the
// entry first if needed.
func (m *Map[K, V]) PutGet(ctx context.Context, k K, v *V) (*V, error) {
	e, err := m.ensure(ctx, k)
	if err != nil {
		return nil, err
	}
	return e.Put(v), nil
}

// Swap exchanges the values at x and y in place.
//
// Swapping a key with itself is a no-op. If both entries are empty nothing
// is marked mutated; otherwise both entries are.
func (m *Map[K, V]) Swap(ctx context.Context, x, y K) error {
	if x == y {
		return nil
	}
	// x != y guarantees two distinct entries, so both pointers are safe to
	// hold at once.
	ex, err := m.ensure(ctx, x)
	if err != nil {
		return err
	}
	ey, err := m.ensure(ctx, y)
	if err != nil {
		return err
	}
	if ex.val == nil && ey.val == nil {
		return nil
	}
	ex.mutated = true
	ey.mutated = true
	ex.val, ey.val = ey.val, ex.val
	return nil
}

// Preload bulk-fetches the entries for the given keys in parallel and
// caches them, without marking anything mutated. Already-cached keys are
// skipped. Useful against remote backends before a sequential pass.
func (m *Map[K, V]) Preload(ctx context.Context, keys ...K) error {
	if m.key == nil {
		return fmt.Errorf("lazy: preload: %w", kv.ErrUnbound)
	}

	byStorage := make(map[kv.Key]K, len(keys))
	fetch := make([]kv.Key, 0, len(keys))
	for _, k := range keys {
		if _, cached := m.cache[k]; cached {
			continue
		}
		sk := m.mapping.StorageKey(*m.key, k)
		if _, dup := byStorage[sk]; dup {
			continue
		}
		byStorage[sk] = k
		fetch = append(fetch, sk)
	}

	found, err := kv.Warm(ctx, m.backend, fetch)
	if err != nil {
		return fmt.Errorf("lazy: preload: %w", err)
	}
	for _, sk := range fetch {
		k := byStorage[sk]
		e := &Entry[V]{}
		if data, ok := found[sk]; ok {
			v := new(V)
			if err := m.codec.Unmarshal(data, v); err != nil {
				return fmt.Errorf("lazy: key %s: %w: %w", sk, kv.ErrDecode, err)
			}
			e.val = v
		}
		m.cache[k] = e
	}
	return nil
}

// Flush writes every mutated entry back to the backend, in deterministic
// key order, and clears the mutated flags. Unmutated entries are never
// re-written; an entry whose value is absent clears its backing cell.
func (m *Map[K, V]) Flush(ctx context.Context) error {
	dirty := make([]K, 0, len(m.cache))
	for k, e := range m.cache {
		if e.mutated {
			dirty = append(dirty, k)
		}
	}
	if len(dirty) == 0 {
		return nil
	}
	if m.key == nil {
		return fmt.Errorf("lazy: flush: %w", kv.ErrUnbound)
	}
	slices.SortFunc(dirty, m.mapping.Compare)

	for _, k := range dirty {
		e := m.cache[k]
		storageKey := m.mapping.StorageKey(*m.key, k)
		if e.val == nil {
			if err := m.backend.Clear(ctx, storageKey); err != nil {
				return fmt.Errorf("lazy: clear key %s: %w", storageKey, err)
			}
		} else {
			buf, err := codec.AppendTo(m.codec, m.enc.Take(), e.val)
			if err != nil {
				return fmt.Errorf("lazy: encode key %s: %w", storageKey, err)
			}
			err = m.backend.Store(ctx, storageKey, buf)
			m.enc.Put(buf)
			if err != nil {
				return fmt.Errorf("lazy: store key %s: %w", storageKey, err)
			}
		}
		e.mutated = false
	}
	return nil
}
