package lazy

import (
	"bytes"
	"cmp"

	"github.com/hupe1980/cellar/kv"
)

// Mapping converts a logical map key into a storage key.
//
// Compare orders keys so that flushes visit entries deterministically.
// Mappings are pure and stateless; there are no error conditions.
type Mapping[K comparable] interface {
	StorageKey(offset kv.Key, k K) kv.Key
	Compare(a, b K) int
}

// IndexMapping addresses entries by uint32 index:
// key = offset + index*Footprint. Collision-free as long as element
// footprints do not overlap.
type IndexMapping struct {
	// Footprint is the number of cells each element occupies; zero is
	// treated as one.
	Footprint uint64
}

// StorageKey returns the key of the i-th element.
func (m IndexMapping) StorageKey(offset kv.Key, i uint32) kv.Key {
	fp := m.Footprint
	if fp == 0 {
		fp = 1
	}
	return offset.Add(uint64(i) * fp)
}

// Compare orders indices numerically.
func (IndexMapping) Compare(a, b uint32) int { return cmp.Compare(a, b) }

// IdentityMapping uses the caller-supplied key directly as the storage key,
// ignoring the map's offset. This distributes entries across the whole key
// space, Solidity-mapping style; the map's own inline footprint is one cell.
type IdentityMapping struct{}

// StorageKey returns k itself.
func (IdentityMapping) StorageKey(_ kv.Key, k kv.Key) kv.Key { return k }

// Compare orders keys lexicographically.
func (IdentityMapping) Compare(a, b kv.Key) int { return bytes.Compare(a[:], b[:]) }
