package cellar

import (
	"context"

	"github.com/hupe1980/cellar/alloc"
	"github.com/hupe1980/cellar/binheap"
	"github.com/hupe1980/cellar/cell"
	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/hashmap"
	"github.com/hupe1980/cellar/kv"
	"github.com/hupe1980/cellar/lazy"
	"github.com/hupe1980/cellar/vec"
)

// Flushable is any storage value that can write its cached mutations back
// to the backend.
type Flushable interface {
	Flush(ctx context.Context) error
}

// Store ties a backend, a codec and a bump allocator together and hands out
// bound storage values.
//
// Values created through a Store are allocated contiguous, non-overlapping
// key ranges and registered for collective flushing. A Store is not safe
// for concurrent use; the cells it hands out share no locks.
type Store struct {
	backend kv.Backend
	codec   codec.Codec
	alloc   *alloc.Bump
	logger  *Logger

	flushables []Flushable
}

// Open creates a Store over the given backend.
func Open(backend kv.Backend, optFns ...Option) *Store {
	o := applyOptions(optFns)
	return &Store{
		backend: backend,
		codec:   o.codec,
		alloc:   alloc.NewBump(o.origin),
		logger:  o.logger,
	}
}

// Backend returns the store's backend.
func (s *Store) Backend() kv.Backend { return s.backend }

// Flush writes every registered value's cached mutations back to the
// backend, in registration order.
func (s *Store) Flush(ctx context.Context) error {
	for _, f := range s.flushables {
		if err := f.Flush(ctx); err != nil {
			s.logger.LogFlush(ctx, err)
			return err
		}
	}
	s.logger.LogFlush(ctx, nil)
	return nil
}

func (s *Store) allocate(kind string, footprint uint64, f Flushable) kv.Key {
	key := s.alloc.Allocate(footprint)
	s.flushables = append(s.flushables, f)
	s.logger.LogAllocate(kind, key.String(), footprint)
	return key
}

// NewCell allocates and binds a single-cell value.
func NewCell[T any](s *Store) *cell.SyncCell[T] {
	c := cell.New[T](s.backend, s.codec)
	c.Bind(s.allocate("cell", 1, c))
	return c
}

// NewPack allocates and binds a packed composite value.
func NewPack[T any](s *Store) *cell.Pack[T] {
	p := cell.NewPack[T](s.backend, s.codec)
	p.Bind(s.allocate("pack", p.Footprint(), p))
	return p
}

// NewVec allocates and binds a growable vector.
//
// A growable vector reserves a full chunk (2^32 cells) so that it can never
// collide with later allocations.
func NewVec[T any](s *Store) *vec.Vec[T] {
	v := vec.New[T](s.backend, s.codec)
	v.Bind(s.allocate("vec", 1+alloc.ChunkCells, v))
	return v
}

// NewSmallVec allocates and binds a fixed-capacity vector. Its footprint is
// exactly 1+capacity cells, so it packs tightly between other values.
func NewSmallVec[T any](s *Store, capacity uint32) *vec.SmallVec[T] {
	v := vec.NewSmall[T](s.backend, s.codec, capacity)
	v.Bind(s.allocate("smallvec", v.Footprint(), v))
	return v
}

// NewHashMap allocates and binds a hash map.
func NewHashMap[K comparable, V any](s *Store) *hashmap.Map[K, V] {
	m := hashmap.New[K, V](s.backend, s.codec)
	m.Bind(s.allocate("hashmap", m.Footprint(), m))
	return m
}

// NewHeap allocates and binds a binary heap ordered by less.
func NewHeap[T any](s *Store, less func(a, b T) bool) *binheap.Heap[T] {
	h := binheap.New[T](s.backend, s.codec, less)
	h.Bind(s.allocate("heap", 1+alloc.ChunkCells, h))
	return h
}

// NewMapping allocates and binds a lazy map keyed by raw storage keys,
// spreading entries across the whole key space. Its inline footprint is a
// single cell.
func NewMapping[V any](s *Store) *lazy.Map[kv.Key, V] {
	m := lazy.New[kv.Key, V](s.backend, s.codec, lazy.IdentityMapping{})
	m.Bind(s.allocate("mapping", 1, m))
	return m
}
