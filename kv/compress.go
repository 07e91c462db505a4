package kv

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression used by a CompressedBackend.
type Compression uint8

const (
	// CompressionS2 uses klauspost's S2 (Snappy-compatible superset).
	CompressionS2 Compression = iota + 1
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4
)

// Stored-value layout: one tag byte, then the compressed payload.
// tagRaw carries the payload verbatim (incompressible input).
// LZ4 blocks additionally carry the uncompressed length as a uvarint,
// because LZ4 block decompression needs the destination size up front.
const (
	tagRaw byte = 0
	tagS2  byte = 1
	tagLZ4 byte = 2
)

// CompressedBackend transparently compresses values on Store and
// decompresses them on Load.
//
// The tag byte makes stored values self-describing, so a backend written
// with one algorithm can be read with any CompressedBackend configuration.
type CompressedBackend struct {
	inner Backend
	alg   Compression
}

// NewCompressedBackend wraps inner with compression. An unknown alg
// defaults to S2.
func NewCompressedBackend(inner Backend, alg Compression) *CompressedBackend {
	if alg != CompressionS2 && alg != CompressionLZ4 {
		alg = CompressionS2
	}
	return &CompressedBackend{inner: inner, alg: alg}
}

// Load reads and decompresses the value stored under key.
func (c *CompressedBackend) Load(ctx context.Context, key Key) ([]byte, bool, error) {
	data, ok, err := c.inner.Load(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(data) == 0 {
		return nil, true, nil
	}

	tag, payload := data[0], data[1:]
	switch tag {
	case tagRaw:
		return payload, true, nil
	case tagS2:
		out, err := s2.Decode(nil, payload)
		if err != nil {
			return nil, false, fmt.Errorf("kv: s2 decompress key %s: %w", key, err)
		}
		return out, true, nil
	case tagLZ4:
		size, n := binary.Uvarint(payload)
		if n <= 0 {
			return nil, false, fmt.Errorf("kv: lz4 block at key %s has no size header", key)
		}
		out := make([]byte, size)
		m, err := lz4.UncompressBlock(payload[n:], out)
		if err != nil {
			return nil, false, fmt.Errorf("kv: lz4 decompress key %s: %w", key, err)
		}
		return out[:m], true, nil
	default:
		return nil, false, fmt.Errorf("kv: unknown compression tag %d at key %s", tag, key)
	}
}

// Store compresses value and writes it under key. Values that do not
// shrink are stored raw.
func (c *CompressedBackend) Store(ctx context.Context, key Key, value []byte) error {
	var encoded []byte

	switch c.alg {
	case CompressionLZ4:
		var header [binary.MaxVarintLen64]byte
		hn := binary.PutUvarint(header[:], uint64(len(value)))
		buf := make([]byte, 1+hn+lz4.CompressBlockBound(len(value)))
		buf[0] = tagLZ4
		copy(buf[1:], header[:hn])
		var compressor lz4.Compressor
		n, err := compressor.CompressBlock(value, buf[1+hn:])
		if err != nil || n == 0 || 1+hn+n >= 1+len(value) {
			// Incompressible; fall through to raw.
			break
		}
		encoded = buf[:1+hn+n]
	default: // CompressionS2
		buf := make([]byte, 1, 1+s2.MaxEncodedLen(len(value)))
		buf[0] = tagS2
		out := s2.Encode(buf[1:cap(buf)], value)
		if 1+len(out) < 1+len(value) {
			encoded = buf[:1+len(out)]
		}
	}

	if encoded == nil {
		encoded = make([]byte, 1+len(value))
		encoded[0] = tagRaw
		copy(encoded[1:], value)
	}
	return c.inner.Store(ctx, key, encoded)
}

// Clear removes the value stored under key.
func (c *CompressedBackend) Clear(ctx context.Context, key Key) error {
	return c.inner.Clear(ctx, key)
}
