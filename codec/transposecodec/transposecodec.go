// Package transposecodec implements the "transpose" array→array codec:
// permutes a chunk's axes before the array→bytes stage sees it, which lets
// the bytes stage lay out a re-ordered memory traversal (e.g. putting the
// fastest-varying axis last for an otherwise Fortran-ordered source)
// without the bytes codec itself knowing about axis order.
package transposecodec

import (
	"fmt"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

// Config is the `configuration` object of the "transpose" codec's
// metadata: a permutation of axis indices. order[i] = j means the output's
// axis i is the input's axis j.
type Config struct {
	Order []int `json:"order"`
}

// Codec is the transpose codec instance.
type Codec struct {
	order []int
}

// New builds a Codec for the given axis permutation.
func New(order []int) (*Codec, error) {
	seen := make([]bool, len(order))
	for _, o := range order {
		if o < 0 || o >= len(order) || seen[o] {
			return nil, fmt.Errorf("transposecodec: %v is not a valid permutation of %d axes", order, len(order))
		}
		seen[o] = true
	}
	cp := make([]int, len(order))
	copy(cp, order)
	return &Codec{order: cp}, nil
}

func init() {
	codec.Register("transpose", codec.KindArrayToArray, func(meta codec.Metadata) (interface{}, error) {
		var cfg Config
		if err := meta.DecodeConfiguration(&cfg); err != nil {
			return nil, err
		}
		return New(cfg.Order)
	})
}

func (c *Codec) Name() string { return "transpose" }

func (c *Codec) RecommendedConcurrency(rep codec.ChunkRepresentation) (codec.RecommendedConcurrency, error) {
	return codec.RecommendedConcurrency{Min: 1, Max: 1}, nil
}

func (c *Codec) PartialDecoderShouldCacheInput() bool { return true }
func (c *Codec) PartialDecoderDecodesAll() bool       { return true }

func (c *Codec) permutedShape(shape []uint64) ([]uint64, error) {
	if len(shape) != len(c.order) {
		return nil, fmt.Errorf("transposecodec: order length %d does not match chunk dimensionality %d", len(c.order), len(shape))
	}
	out := make([]uint64, len(shape))
	for i, o := range c.order {
		out[i] = shape[o]
	}
	return out, nil
}

func (c *Codec) inverseOrder() []int {
	inv := make([]int, len(c.order))
	for i, o := range c.order {
		inv[o] = i
	}
	return inv
}

// Encode permutes rep.ChunkShape's axes according to c.order.
func (c *Codec) Encode(decoded []byte, rep codec.ChunkRepresentation, opts codec.Options) ([]byte, error) {
	return permute(decoded, rep.ChunkShape, c.order, rep.DataType.Size())
}

// Decode applies the inverse permutation.
func (c *Codec) Decode(encoded []byte, rep codec.ChunkRepresentation, opts codec.Options) ([]byte, error) {
	permutedShape, err := c.permutedShape(rep.ChunkShape)
	if err != nil {
		return nil, err
	}
	return permute(encoded, permutedShape, c.inverseOrder(), rep.DataType.Size())
}

func (c *Codec) ComputeEncodedSize(rep codec.ChunkRepresentation) (codec.ChunkRepresentation, error) {
	shape, err := c.permutedShape(rep.ChunkShape)
	if err != nil {
		return codec.ChunkRepresentation{}, err
	}
	return codec.ChunkRepresentation{ChunkShape: shape, DataType: rep.DataType, FillValue: rep.FillValue}, nil
}

// PartialDecoder has no specialised support: a transposed element's
// position does not decompose into independent per-axis ranges over the
// untransposed upstream data, so the whole chunk is decoded and the
// requested subset sliced out of it.
func (c *Codec) PartialDecoder(upstream codec.ArrayPartialDecoder, rep codec.ChunkRepresentation, opts codec.Options) (codec.ArrayPartialDecoder, error) {
	return &partialDecoder{upstream: upstream, codec: c, rep: rep}, nil
}

type partialDecoder struct {
	upstream codec.ArrayPartialDecoder
	codec    *Codec
	rep      codec.ChunkRepresentation
}

func (d *partialDecoder) ElementSize() int { return d.rep.DataType.Size() }

// PartialDecode decodes the whole upstream (permuted) chunk once, applies
// the inverse permutation, and slices each requested subset out of the
// untransposed buffer.
func (d *partialDecoder) PartialDecode(subsets []arraysubset.Subset, opts codec.Options) ([][]byte, bool, error) {
	permutedShape, err := d.codec.permutedShape(d.rep.ChunkShape)
	if err != nil {
		return nil, false, err
	}
	full := arraysubset.New(make([]uint64, len(permutedShape)), permutedShape)
	bufs, ok, err := d.upstream.PartialDecode([]arraysubset.Subset{full}, opts)
	if err != nil || !ok {
		return nil, ok, err
	}
	untransposed, err := permute(bufs[0], permutedShape, d.codec.inverseOrder(), d.ElementSize())
	if err != nil {
		return nil, false, err
	}

	elemSize := d.ElementSize()
	out := make([][]byte, len(subsets))
	for i, s := range subsets {
		runs, err := s.ContiguousLinearisedIndices(d.rep.ChunkShape)
		if err != nil {
			return nil, false, err
		}
		var buf []byte
		for _, r := range runs {
			start := int(r.Start) * elemSize
			n := int(r.Length) * elemSize
			buf = append(buf, untransposed[start:start+n]...)
		}
		out[i] = buf
	}
	return out, true, nil
}

func permute(data []byte, outShape []uint64, order []int, elemSize int) ([]byte, error) {
	n := len(outShape)
	inShape := make([]uint64, n)
	for i, o := range order {
		inShape[o] = outShape[i]
	}
	inStrides := strides(inShape)
	outStrides := strides(outShape)

	total := uint64(1)
	for _, v := range outShape {
		total *= v
	}
	expected := total * uint64(elemSize)
	if uint64(len(data)) != expected {
		return nil, fmt.Errorf("transposecodec: data length %d does not match expected %d", len(data), expected)
	}

	out := make([]byte, len(data))
	outIdx := make([]uint64, n)
	for flat := uint64(0); flat < total; flat++ {
		rem := flat
		for i := 0; i < n; i++ {
			outIdx[i] = rem / outStrides[i]
			rem %= outStrides[i]
		}
		inOffset := uint64(0)
		for i, o := range order {
			inOffset += outIdx[i] * inStrides[o]
		}
		copy(out[inOffset*uint64(elemSize):(inOffset+1)*uint64(elemSize)], data[flat*uint64(elemSize):(flat+1)*uint64(elemSize)])
	}
	return out, nil
}

func strides(shape []uint64) []uint64 {
	s := make([]uint64, len(shape))
	stride := uint64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return s
}
