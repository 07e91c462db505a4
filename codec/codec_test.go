package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

func TestCodecRoundTrip(t *testing.T) {
	codecs := []Codec{JSON{}, GoJSON{}}

	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			in := sample{ID: 7, Name: "seven"}
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out sample
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("protobuf")
	assert.False(t, ok)
}

func TestAppendTo(t *testing.T) {
	t.Run("uses append fast path", func(t *testing.T) {
		dst := append(make([]byte, 0, 128), "prefix:"...)
		out, err := AppendTo(GoJSON{}, dst, sample{ID: 1, Name: "one"})
		require.NoError(t, err)
		assert.Equal(t, "prefix:", string(out[:7]))

		var got sample
		require.NoError(t, GoJSON{}.Unmarshal(out[7:], &got))
		assert.Equal(t, sample{ID: 1, Name: "one"}, got)
	})

	t.Run("falls back to marshal", func(t *testing.T) {
		out, err := AppendTo(JSON{}, nil, sample{ID: 2, Name: "two"})
		require.NoError(t, err)

		var got sample
		require.NoError(t, JSON{}.Unmarshal(out, &got))
		assert.Equal(t, sample{ID: 2, Name: "two"}, got)
	})
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "go-json", Default.Name())
}
