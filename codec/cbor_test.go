package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int64     `cbor:"1,keyasint"`
	Vals []float64 `cbor:"2,keyasint"`
}

func TestCBORCodecRoundTrip(t *testing.T) {
	c, err := NewCBORCodec()
	require.NoError(t, err)

	in := record{ID: -42, Vals: []float64{1.5, -2.25}}
	data, err := c.MarshalCBOR(in)
	require.NoError(t, err)

	var out record
	require.NoError(t, c.UnmarshalCBOR(data, &out))
	assert.Equal(t, in, out)
}

func TestMarshalIsCanonical(t *testing.T) {
	c, err := NewCBORCodec()
	require.NoError(t, err)

	// map keys are emitted in canonical order regardless of insertion
	a, err := c.MarshalCBOR(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	b, err := c.MarshalCBOR(map[string]int{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x62, 0x02}, a)
}

func TestUnmarshalRejectsDuplicateMapKeys(t *testing.T) {
	c, err := NewCBORCodec()
	require.NoError(t, err)

	// {1: "a", 1: "b"}
	raw := []byte{0xa2, 0x01, 0x61, 0x61, 0x01, 0x61, 0x62}
	var m map[int]string
	assert.Error(t, c.UnmarshalCBOR(raw, &m))
}
