package zstdcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/codec"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c, err := New(9, true)
	require.NoError(t, err)

	original := []byte("some highly compressible data data data data data data")
	encoded, err := c.Encode(original, codec.DefaultOptions())
	require.NoError(t, err)

	decoded, err := c.Decode(encoded, codec.BytesRepresentation{Kind: codec.Unbounded}, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRejectsInvalidLevel(t *testing.T) {
	_, err := New(0, false)
	assert.Error(t, err)
	_, err = New(23, false)
	assert.Error(t, err)
}
