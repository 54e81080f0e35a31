package transposecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
	"github.com/zarr-go/zarrs/zarrtype"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c, err := New([]int{1, 0})
	require.NoError(t, err)

	rep := codec.ChunkRepresentation{ChunkShape: []uint64{2, 3}, DataType: zarrtype.Uint8}
	decoded := []byte{1, 2, 3, 4, 5, 6} // row-major 2x3

	encoded, err := c.Encode(decoded, rep, codec.DefaultOptions())
	require.NoError(t, err)
	// Transposed to 3x2: column-major reading of the original.
	assert.Equal(t, []byte{1, 4, 2, 5, 3, 6}, encoded)

	back, err := c.Decode(encoded, rep, codec.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, decoded, back)
}

func TestRejectsNonPermutation(t *testing.T) {
	_, err := New([]int{0, 0})
	assert.Error(t, err)
}

type memArraySource struct {
	data  []byte
	shape []uint64
	elem  int
}

func (m memArraySource) ElementSize() int { return m.elem }
func (m memArraySource) PartialDecode(subsets []arraysubset.Subset, opts codec.Options) ([][]byte, bool, error) {
	out := make([][]byte, len(subsets))
	for i, s := range subsets {
		runs, err := s.ContiguousLinearisedIndices(m.shape)
		if err != nil {
			return nil, false, err
		}
		var buf []byte
		for _, r := range runs {
			start := int(r.Start) * m.elem
			n := int(r.Length) * m.elem
			buf = append(buf, m.data[start:start+n]...)
		}
		out[i] = buf
	}
	return out, true, nil
}

func TestPartialDecoderUntransposesThenSlices(t *testing.T) {
	c, err := New([]int{1, 0})
	require.NoError(t, err)
	rep := codec.ChunkRepresentation{ChunkShape: []uint64{2, 3}, DataType: zarrtype.Uint8}

	transposed := []byte{1, 4, 2, 5, 3, 6} // 3x2 layout
	upstream := memArraySource{data: transposed, shape: []uint64{3, 2}, elem: 1}

	dec, err := c.PartialDecoder(upstream, rep, codec.DefaultOptions())
	require.NoError(t, err)

	row1 := arraysubset.New([]uint64{1, 0}, []uint64{1, 3})
	bufs, ok, err := dec.PartialDecode([]arraysubset.Subset{row1}, codec.DefaultOptions())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{4, 5, 6}, bufs[0])
}
