package alloc

import (
	"testing"

	"github.com/hupe1980/cellar/kv"
	"github.com/stretchr/testify/assert"
)

func TestBumpAllocate(t *testing.T) {
	t.Run("starts at origin", func(t *testing.T) {
		origin := kv.RepeatKey(0x10)
		b := NewBump(origin)
		assert.Equal(t, origin, b.Allocate(1))
	})

	t.Run("ranges do not overlap", func(t *testing.T) {
		b := NewBump(kv.Key{})

		first := b.Allocate(3)
		second := b.Allocate(1 + ChunkCells)
		third := b.Allocate(1)

		assert.Equal(t, first.Add(3), second)
		assert.Equal(t, second.Add(1+ChunkCells), third)
	})

	t.Run("zero footprint reserves one cell", func(t *testing.T) {
		b := NewBump(kv.Key{})
		first := b.Allocate(0)
		second := b.Allocate(1)
		assert.Equal(t, first.Add(1), second)
	})
}
