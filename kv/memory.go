package kv

import (
	"context"
	"sync"
)

// Stats counts the backend operations a MemoryBackend has served.
//
// The caching layers above guarantee exact read/write budgets (for example,
// at most one load per cell between flushes); tests assert against these
// counters to pin those budgets down.
type Stats struct {
	Reads  uint64
	Writes uint64
	Clears uint64
}

// MemoryBackend is an in-memory Backend implementation for tests and
// embedding. It additionally counts every operation.
//
// The core is single-threaded, but the mutex keeps the backend safe for
// test harnesses that poke at it from helper goroutines.
type MemoryBackend struct {
	mu    sync.RWMutex
	cells map[Key][]byte
	stats Stats
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		cells: make(map[Key][]byte),
	}
}

// Load returns the value stored under key, if any.
func (m *MemoryBackend) Load(_ context.Context, key Key) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Reads++
	data, ok := m.cells[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate stored state.
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Store writes value under key, replacing any previous value.
func (m *MemoryBackend) Store(_ context.Context, key Key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Writes++
	stored := make([]byte, len(value))
	copy(stored, value)
	m.cells[key] = stored
	return nil
}

// Clear removes the value stored under key. Clearing an absent key counts
// as a clear but is otherwise a no-op.
func (m *MemoryBackend) Clear(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Clears++
	delete(m.cells, key)
	return nil
}

// Stats returns the operation counters.
func (m *MemoryBackend) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// ResetStats zeroes the operation counters without touching stored data.
func (m *MemoryBackend) ResetStats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = Stats{}
}

// Len returns the number of occupied cells.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cells)
}

// Keys returns the set of occupied keys. The result is a snapshot.
func (m *MemoryBackend) Keys() []Key {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]Key, 0, len(m.cells))
	for k := range m.cells {
		keys = append(keys, k)
	}
	return keys
}
