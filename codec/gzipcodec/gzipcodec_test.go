package gzipcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

type memSource struct{ data []byte }

func (m memSource) PartialDecode(ranges []arraysubset.ByteRange, opts codec.Options) ([][]byte, bool, error) {
	out := make([][]byte, len(ranges))
	for i, r := range ranges {
		buf, err := r.Extract(m.data)
		if err != nil {
			return nil, false, err
		}
		out[i] = buf
	}
	return out, true, nil
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c, err := New(6)
	require.NoError(t, err)

	original := []byte("the quick brown fox jumps over the lazy dog, repeated, repeated, repeated")
	encoded, err := c.Encode(original, codec.DefaultOptions())
	require.NoError(t, err)
	assert.NotEqual(t, original, encoded)

	decoded, err := c.Decode(encoded, codec.BytesRepresentation{Kind: codec.Unbounded}, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestPartialDecoderDecodesWholeStreamThenSlices(t *testing.T) {
	c, err := New(6)
	require.NoError(t, err)
	original := []byte("0123456789abcdef")
	encoded, err := c.Encode(original, codec.DefaultOptions())
	require.NoError(t, err)

	dec, err := c.PartialDecoder(memSource{data: encoded}, codec.BytesRepresentation{Kind: codec.Unbounded}, codec.DefaultOptions())
	require.NoError(t, err)

	length := uint64(4)
	bufs, ok, err := dec.PartialDecode([]arraysubset.ByteRange{arraysubset.FromStart(4, &length)}, codec.DefaultOptions())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("4567"), bufs[0])
}

func TestRejectsInvalidLevel(t *testing.T) {
	_, err := New(42)
	assert.Error(t, err)
}
