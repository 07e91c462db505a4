package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Notes:
// - Deterministic for the key types used by the hash map (maps are sorted).
// - Round-trips typical structs/maps/slices; time, complex numbers, funcs,
//   and channels may not be supported.
//
// If you need custom encoding (e.g. protobuf/msgpack), implement Codec and
// pass it with WithCodec where supported.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// Changing the default only affects newly written cells; existing backends
// keep whatever encoding they were written with, so reconfigure with care.
var Default Codec = GoJSON{}
