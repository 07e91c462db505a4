package kv

import "encoding/hex"

// KeySize is the size of a storage key in bytes.
const KeySize = 32

// Key is a typeless 256-bit address into the backend's flat storage space.
//
// Keys support integer offset arithmetic so that containers can derive the
// keys of their elements from a single root key. The byte order is big-endian:
// Add carries from the last byte towards the first.
type Key [KeySize]byte

// RepeatKey returns a key with every byte set to b. Mostly useful in tests.
func RepeatKey(b byte) Key {
	var k Key
	for i := range k {
		k[i] = b
	}
	return k
}

// Add returns the key at offset n cells past k.
//
// The addition is performed over the full 256-bit key with carry propagation,
// so it cannot overflow for any uint64 offset.
func (k Key) Add(n uint64) Key {
	out := k
	for i := KeySize - 1; i >= 0 && n > 0; i-- {
		sum := uint64(out[i]) + (n & 0xff)
		out[i] = byte(sum)
		n = (n >> 8) + (sum >> 8)
	}
	return out
}

// String returns the hex representation of the key.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}
