// Package kv defines the flat, key-addressed, byte-oriented storage boundary
// that the typed containers in this module are a view over.
//
// A Backend stores at most one opaque byte blob per 256-bit Key. Everything
// above this package (cells, lazy maps, collections) is about touching the
// Backend as rarely as possible and accounting exactly for every touch.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrUnbound is returned when a cell or container is used before it has
	// been bound to a storage key. This is a defect in caller logic; callers
	// should treat it as terminal for the current call.
	ErrUnbound = errors.New("kv: access through unbound handle")

	// ErrDecode is returned when bytes present in the backend do not decode
	// as the expected type. Recoverable; surfaced to the caller wrapped with
	// the failing key and codec error.
	ErrDecode = errors.New("kv: backend bytes do not decode as expected type")
)

// Backend is the storage collaborator boundary.
//
// Load reports ok=false when no value is stored under key; a stored empty
// blob is returned as (nil-or-empty, true). Implementations are synchronous;
// any transactional all-or-nothing discipline is the backend's concern, not
// the caching layer's.
type Backend interface {
	Load(ctx context.Context, key Key) (value []byte, ok bool, err error)
	Store(ctx context.Context, key Key, value []byte) error
	Clear(ctx context.Context, key Key) error
}
