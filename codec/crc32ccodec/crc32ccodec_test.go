package crc32ccodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/codec"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := New()
	original := []byte("payload bytes to checksum")
	encoded, err := c.Encode(original, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, encoded, len(original)+4)

	decoded, err := c.Decode(encoded, codec.BytesRepresentation{Kind: codec.Known, Size: uint64(len(encoded))}, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeDetectsCorruption(t *testing.T) {
	c := New()
	encoded, err := c.Encode([]byte("payload"), codec.DefaultOptions())
	require.NoError(t, err)
	encoded[0] ^= 0xFF

	_, err = c.Decode(encoded, codec.BytesRepresentation{Kind: codec.Known, Size: uint64(len(encoded))}, codec.DefaultOptions())
	assert.Error(t, err)
}
