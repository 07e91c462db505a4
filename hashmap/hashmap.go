// Package hashmap implements an open-addressing map over lazily-cached
// storage cells, using quadratic probing with tri-state slots.
//
// Instead of storing values directly, the map stores (key, value) slot
// records so that every storage slot is in one of three states:
//
//  1. occupied - holds a key and a value
//  2. removed  - a tombstone left by a deletion
//  3. empty    - no record was ever written (absence in the backend)
//
// The distinction drives the probe state machine: a lookup scans past
// tombstones but stops at the first empty slot (the key is provably
// absent), while an insert may claim either.
package hashmap

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/cellar/cell"
	"github.com/hupe1980/cellar/codec"
	"github.com/hupe1980/cellar/internal/keccak"
	"github.com/hupe1980/cellar/kv"
	"github.com/hupe1980/cellar/lazy"
)

// MaxProbeHops bounds the probe sequence. Lookups and inserts fail once no
// usable slot has been found within this many hops.
const MaxProbeHops = 32

// ErrProbeExhausted is returned when a probe sequence finds no usable slot.
// This is terminal for the failing operation: the map gives no way to
// recover a slot for the key within the probe budget.
//
// Remove also returns it when its probe finds no slot for the key at all,
// preserving the fatal treatment of removing an absent key.
var ErrProbeExhausted = errors.New("hashmap: probe found no usable slot")

// Tombstones are never compacted; they are reclaimed only when a later
// insert's probe path revisits them. Long-lived maps under heavy
// insert/remove churn can therefore exhaust the probe budget earlier than
// their live size suggests.

const (
	slotOccupied uint8 = 1
	slotRemoved  uint8 = 2
)

// slot is the stored record of one map slot. Removed slots keep the state
// tag only; key and value are zeroed.
type slot[K comparable, V any] struct {
	State uint8 `json:"state"`
	Key   K     `json:"key"`
	Val   V     `json:"val"`
}

// Map is a storage-backed hash map from K to V.
//
// Layout: the length cell lives at the map's root key, the 2^32-slot entry
// chunk starts at root+1. The length always equals the number of occupied
// slots and is maintained incrementally, never recomputed by scanning.
//
// For a fixed key set inserted in a fixed order, slot assignment is a pure
// function of the key hashes and prior occupancy, so layouts reproduce
// exactly across runs.
type Map[K comparable, V any] struct {
	codec   codec.Codec
	len     *cell.SyncCell[uint32]
	entries *lazy.Map[uint32, slot[K, V]]
}

// New creates an unbound hash map.
func New[K comparable, V any](backend kv.Backend, c codec.Codec) *Map[K, V] {
	if c == nil {
		c = codec.Default
	}
	return &Map[K, V]{
		codec:   c,
		len:     cell.New[uint32](backend, c),
		entries: lazy.NewChunk[slot[K, V]](backend, c, 1),
	}
}

// Footprint returns the number of contiguous cells the map addresses:
// one length cell plus one cell per possible slot.
func (m *Map[K, V]) Footprint() uint64 { return 1 + uint64(1)<<32 }

// Bind associates the map with its root storage key.
func (m *Map[K, V]) Bind(key kv.Key) {
	m.len.Bind(key)
	m.entries.Bind(key.Add(1))
}

// Len returns the number of key-value pairs in the map.
func (m *Map[K, V]) Len(ctx context.Context) (uint32, error) {
	n, err := m.len.Get(ctx)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

// IsEmpty reports whether the map contains no elements.
func (m *Map[K, V]) IsEmpty(ctx context.Context) (bool, error) {
	n, err := m.Len(ctx)
	return n == 0, err
}

// probeStart derives the first probed slot from the big-endian first four
// bytes of the keccak256 hash of the encoded key.
func (m *Map[K, V]) probeStart(key K) (uint32, error) {
	encoded, err := m.codec.Marshal(key)
	if err != nil {
		return 0, fmt.Errorf("hashmap: encode key: %w", err)
	}
	digest := keccak.Sum256(encoded)
	return binary.BigEndian.Uint32(digest[:4]), nil
}

type probeOutcome uint8

const (
	// probeOccupied: the slot at index holds the probed key.
	probeOccupied probeOutcome = iota
	// probeVacant: the slot at index is claimable for an insert.
	probeVacant
	// probeNotFound: an empty slot proved the key absent (lookups only).
	probeNotFound
	// probeExhausted: no verdict within MaxProbeHops.
	probeExhausted
)

// probe walks the quadratic probe sequence of key.
//
// Slot indices wrap around the full uint32 range by design; hop offsets are
// hop*hop. When inserting, the first tombstone or empty slot is claimed;
// when inspecting, tombstones are scanned past and an empty slot terminates
// the scan with a definite absence verdict.
func (m *Map[K, V]) probe(ctx context.Context, key K, inserting bool) (probeOutcome, uint32, error) {
	start, err := m.probeStart(key)
	if err != nil {
		return probeExhausted, 0, err
	}
	for hop := uint32(0); hop < MaxProbeHops; hop++ {
		index := start + hop*hop // wrapping
		s, err := m.entries.Get(ctx, index)
		if err != nil {
			return probeExhausted, 0, err
		}
		switch {
		case s == nil: // empty
			if inserting {
				return probeVacant, index, nil
			}
			return probeNotFound, 0, nil
		case s.State == slotRemoved:
			if inserting {
				return probeVacant, index, nil
			}
			// Tombstone: keep scanning.
		case s.Key == key:
			return probeOccupied, index, nil
		}
	}
	return probeExhausted, 0, nil
}

// Insert adds or updates the mapping for key and returns the previous
// value, or nil if the key was not present.
//
// When the key is already present only the value is overwritten; the stored
// key is kept (this matters for keys that compare equal without being
// identical). Returns ErrProbeExhausted when no slot can be claimed.
func (m *Map[K, V]) Insert(ctx context.Context, key K, val V) (*V, error) {
	outcome, index, err := m.probe(ctx, key, true)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case probeOccupied:
		s, err := m.entries.GetMut(ctx, index)
		if err != nil {
			return nil, err
		}
		old := s.Val
		s.Val = val
		return &old, nil
	case probeVacant:
		n, err := m.Len(ctx)
		if err != nil {
			return nil, err
		}
		m.len.Set(n + 1)
		m.entries.Put(index, &slot[K, V]{State: slotOccupied, Key: key, Val: val})
		return nil, nil
	default:
		return nil, fmt.Errorf("hashmap: insert: %w", ErrProbeExhausted)
	}
}

// Get returns the value for key, or nil if the key is not in the map.
//
// The returned pointer stays valid across later map operations on other
// keys; treat it as read-only and use GetMut or MutateWith for mutation.
func (m *Map[K, V]) Get(ctx context.Context, key K) (*V, error) {
	outcome, index, err := m.probe(ctx, key, false)
	if err != nil || outcome != probeOccupied {
		return nil, err
	}
	s, err := m.entries.Get(ctx, index)
	if err != nil {
		return nil, err
	}
	return &s.Val, nil
}

// GetMut returns the value for key for in-place mutation, or nil if the
// key is not in the map. The slot is marked for write-back.
func (m *Map[K, V]) GetMut(ctx context.Context, key K) (*V, error) {
	outcome, index, err := m.probe(ctx, key, false)
	if err != nil || outcome != probeOccupied {
		return nil, err
	}
	s, err := m.entries.GetMut(ctx, index)
	if err != nil {
		return nil, err
	}
	return &s.Val, nil
}

// Contains reports whether key is in the map.
func (m *Map[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	v, err := m.Get(ctx, key)
	return v != nil, err
}

// MutateWith applies f to the value for key in place and returns the
// result, or nil if the key is not in the map (f is not called then).
func (m *Map[K, V]) MutateWith(ctx context.Context, key K, f func(*V)) (*V, error) {
	v, err := m.GetMut(ctx, key)
	if err != nil || v == nil {
		return nil, err
	}
	f(v)
	return v, nil
}

// Remove deletes the mapping for key, leaving a tombstone, and returns the
// removed value.
//
// A probe that finds no slot for the key is terminal (ErrProbeExhausted),
// matching the map's historical treatment of removing an absent key; it is
// deliberately not softened into a nil result.
func (m *Map[K, V]) Remove(ctx context.Context, key K) (*V, error) {
	outcome, index, err := m.probe(ctx, key, false)
	if err != nil {
		return nil, err
	}
	if outcome != probeOccupied {
		return nil, fmt.Errorf("hashmap: remove: %w", ErrProbeExhausted)
	}
	s, err := m.entries.GetMut(ctx, index)
	if err != nil {
		return nil, err
	}
	old := s.Val
	var zeroK K
	var zeroV V
	s.State = slotRemoved
	s.Key = zeroK
	s.Val = zeroV

	n, err := m.Len(ctx)
	if err != nil {
		return nil, err
	}
	m.len.Set(n - 1)
	return &old, nil
}

// Flush writes the length cell and every mutated slot back to the backend.
func (m *Map[K, V]) Flush(ctx context.Context) error {
	if err := m.len.Flush(ctx); err != nil {
		return err
	}
	return m.entries.Flush(ctx)
}
