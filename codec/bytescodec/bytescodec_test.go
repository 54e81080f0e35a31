package bytescodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
	"github.com/zarr-go/zarrs/zarrtype"
)

func TestEncodeDecodeBigEndianSwapsBytes(t *testing.T) {
	c, err := New(Big)
	require.NoError(t, err)

	rep := codec.ChunkRepresentation{ChunkShape: []uint64{2}, DataType: zarrtype.Int32}
	decoded := []byte{0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00}

	encoded, err := c.Encode(decoded, rep, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02}, encoded)

	back, err := c.Decode(encoded, rep, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, decoded, back)
}

func TestLittleEndianIsNoOp(t *testing.T) {
	c, err := New(Little)
	require.NoError(t, err)
	rep := codec.ChunkRepresentation{ChunkShape: []uint64{2}, DataType: zarrtype.Int32}
	decoded := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	encoded, err := c.Encode(decoded, rep, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, decoded, encoded)
}

type memBytesSource struct{ data []byte }

func (m memBytesSource) PartialDecode(ranges []arraysubset.ByteRange, opts codec.Options) ([][]byte, bool, error) {
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

func TestPartialDecoderServesSubsetByByteRange(t *testing.T) {
	c, err := New(Little)
	require.NoError(t, err)
	rep := codec.ChunkRepresentation{ChunkShape: []uint64{2, 2}, DataType: zarrtype.Float32}
	data := make([]byte, rep.Size())
	for i := range data {
		data[i] = byte(i)
	}

	dec, err := c.PartialDecoder(memBytesSource{data: data}, rep, codec.DefaultOptions())
	require.NoError(t, err)

	row1 := arraysubset.New([]uint64{1, 0}, []uint64{1, 2})
	bufs, ok, err := dec.PartialDecode([]arraysubset.Subset{row1}, codec.DefaultOptions())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, data[8:16], bufs[0])
}
