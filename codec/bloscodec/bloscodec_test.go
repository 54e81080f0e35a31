package bloscodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/codec"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c, err := New(5, ByteShuffle, 4)
	require.NoError(t, err)

	original := make([]byte, 256)
	for i := range original {
		original[i] = byte(i % 7)
	}

	encoded, err := c.Encode(original, codec.DefaultOptions())
	require.NoError(t, err)

	decoded, err := c.Decode(encoded, codec.BytesRepresentation{Kind: codec.Unbounded}, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRejectsInvalidConfiguration(t *testing.T) {
	_, err := New(10, NoShuffle, 4)
	assert.Error(t, err)
	_, err = New(5, NoShuffle, 0)
	assert.Error(t, err)
}
