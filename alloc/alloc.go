// Package alloc assigns root storage keys to containers.
//
// The key space is 2^256 cells; a container's footprint is the number of
// contiguous cells it may ever address. The bump allocator hands out
// non-overlapping key ranges by advancing a cursor by each footprint, which
// keeps index-based key addressing collision-free.
package alloc

import "github.com/hupe1980/cellar/kv"

// ChunkCells is the footprint of one lazy chunk: a contiguous range of 2^32
// cells, one per uint32 index.
const ChunkCells = uint64(1) << 32

// Bump is a bump-pointer key allocator. Not safe for concurrent use.
type Bump struct {
	next kv.Key
}

// NewBump creates an allocator starting at origin.
func NewBump(origin kv.Key) *Bump {
	return &Bump{next: origin}
}

// Allocate reserves footprint contiguous cells and returns the first key of
// the reserved range. A zero footprint is treated as one cell.
func (b *Bump) Allocate(footprint uint64) kv.Key {
	if footprint == 0 {
		footprint = 1
	}
	key := b.next
	b.next = b.next.Add(footprint)
	return key
}
