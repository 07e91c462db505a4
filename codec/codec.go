// Package codec centralizes value encoding for storage cells.
//
// Every cell holds exactly one encoded value; the codec is the boundary
// between typed containers and the byte-oriented backend. Codec selection is
// a breaking-change boundary: bytes persisted by one codec may not decode
// under another, so pick one per deployment and keep it.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Appender is an optional fast path for codecs that can encode into a
// caller-provided buffer. Flush paths use it to reuse one scratch buffer
// across many cell encodes.
type Appender interface {
	Append(dst []byte, v any) ([]byte, error)
}

// AppendTo encodes v into dst using c's Append fast path when available,
// falling back to Marshal plus copy.
func AppendTo(c Codec, dst []byte, v any) ([]byte, error) {
	if a, ok := c.(Appender); ok {
		return a.Append(dst, v)
	}
	b, err := c.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
