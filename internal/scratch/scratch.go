// Package scratch provides a reusable per-container encode buffer.
//
// Flushing a container encodes many small values back to back. Instead of a
// process-global byte buffer carved into sub-slices, each flushing container
// owns one Buffer and recycles its backing array between encodes: take a
// zero-length slice, append-encode into it, hand the bytes to the backend
// (which copies or serializes them), then return the possibly-grown array.
package scratch

// Buffer recycles a single backing array across encode operations.
//
// Not safe for concurrent use; a Buffer belongs to exactly one container.
type Buffer struct {
	buf []byte
}

// NewBuffer creates a buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Take returns a zero-length slice over the spare backing array. The slice
// is only valid until the next Take.
func (b *Buffer) Take() []byte {
	return b.buf[:0]
}

// Put returns a slice obtained from Take (possibly grown by appends) so its
// backing array can be reused by the next Take.
func (b *Buffer) Put(p []byte) {
	if cap(p) > cap(b.buf) {
		b.buf = p[:0]
	}
}
