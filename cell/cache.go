package cell

// cacheState tracks whether the cached value reflects the backend.
type cacheState uint8

const (
	// stateDesync: nothing is known about the backend's value yet.
	stateDesync cacheState = iota
	// stateSync: the cache holds the authoritative value (clean or dirty).
	stateSync
)

// cache is the dirty/clean/desynced state machine wrapping one optional
// value.
//
// A desynced cache has no readable value; callers must sync it first via
// update (load path) or write (write-without-read path). value reports
// ok=false while desynced so a stale read is impossible by construction.
type cache[T any] struct {
	state cacheState
	dirty bool
	val   *T // nil means "no value"
}

// synced reports whether the cache reflects a known value.
func (c *cache[T]) synced() bool {
	return c.state == stateSync
}

// value returns the cached value. ok is false while the cache is desynced;
// a synced-but-empty cache returns (nil, true).
func (c *cache[T]) value() (v *T, ok bool) {
	if c.state != stateSync {
		return nil, false
	}
	return c.val, true
}

// update syncs the cache with a value just loaded from the backend.
// The cache is clean afterwards.
func (c *cache[T]) update(v *T) {
	c.state = stateSync
	c.dirty = false
	c.val = v
}

// write replaces the cached value without consulting the backend.
// The cache is dirty afterwards.
func (c *cache[T]) write(v *T) {
	c.state = stateSync
	c.dirty = true
	c.val = v
}

// markDirty flags a synced cache as needing write-back.
func (c *cache[T]) markDirty() {
	c.dirty = true
}

// markClean flags the cache as matching the backend again.
func (c *cache[T]) markClean() {
	c.dirty = false
}
