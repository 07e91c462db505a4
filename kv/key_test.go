package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyAdd(t *testing.T) {
	t.Run("zero offset is identity", func(t *testing.T) {
		k := RepeatKey(0x42)
		assert.Equal(t, k, k.Add(0))
	})

	t.Run("increments last byte", func(t *testing.T) {
		var k Key
		got := k.Add(1)
		assert.Equal(t, byte(1), got[KeySize-1])
		for i := 0; i < KeySize-1; i++ {
			assert.Equal(t, byte(0), got[i])
		}
	})

	t.Run("carries across byte boundaries", func(t *testing.T) {
		var k Key
		k[KeySize-1] = 0xFF
		got := k.Add(1)
		assert.Equal(t, byte(0), got[KeySize-1])
		assert.Equal(t, byte(1), got[KeySize-2])
	})

	t.Run("offsets compose", func(t *testing.T) {
		k := RepeatKey(0x01)
		assert.Equal(t, k.Add(1000), k.Add(400).Add(600))
	})

	t.Run("distinct offsets give distinct keys", func(t *testing.T) {
		var k Key
		seen := make(map[Key]struct{})
		for i := uint64(0); i < 1000; i++ {
			seen[k.Add(i)] = struct{}{}
		}
		assert.Len(t, seen, 1000)
	})

	t.Run("wraps around the key space", func(t *testing.T) {
		k := RepeatKey(0xFF)
		got := k.Add(1)
		assert.Equal(t, Key{}, got)
	})
}

func TestKeyString(t *testing.T) {
	var k Key
	k[0] = 0xAB
	k[KeySize-1] = 0x01
	s := k.String()
	require.Len(t, s, 2*KeySize)
	assert.Equal(t, "ab", s[:2])
	assert.Equal(t, "01", s[len(s)-2:])
}

func TestRepeatKey(t *testing.T) {
	k := RepeatKey(0x7F)
	for i := 0; i < KeySize; i++ {
		assert.Equal(t, byte(0x7F), k[i])
	}
}
