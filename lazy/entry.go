package lazy

// Entry is one cached cell of a lazy map: an optional value plus a mutated
// flag that drives selective write-back.
//
// Entries live behind stable heap pointers inside the map's cache, so
// references into an entry survive later inserts into the same map.
type Entry[V any] struct {
	val     *V // nil means "no value"
	mutated bool
}

// Mutated reports whether the entry's value has potentially diverged from
// the backend.
func (e *Entry[V]) Mutated() bool { return e.mutated }

// Value returns the entry's value, or nil if the entry is empty.
func (e *Entry[V]) Value() *V { return e.val }

// ValueMut returns the entry's value for in-place mutation. The entry is
// marked mutated unconditionally; an empty entry touched this way clears
// its backing cell on the next flush.
func (e *Entry[V]) ValueMut() *V {
	e.mutated = true
	return e.val
}

// Take removes and returns the entry's value. Marks the entry mutated if a
// value was present.
func (e *Entry[V]) Take() *V {
	v := e.val
	if v != nil {
		e.mutated = true
		e.val = nil
	}
	return v
}

// Put replaces the entry's value and returns the old one. The entry is
// marked mutated unless both old and new value are absent.
func (e *Entry[V]) Put(v *V) *V {
	if v == nil {
		return e.Take()
	}
	old := e.val
	e.val = v
	e.mutated = true
	return old
}
