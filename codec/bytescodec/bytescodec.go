// Package bytescodec implements the "bytes" array→bytes codec: the
// required terminal stage of every codec chain, serializing a decoded
// chunk's elements to a flat byte sequence in a configurable endianness.
// Multi-byte data types are byte-swapped on encode/decode when the
// configured endianness does not match the module's in-memory element
// layout, which is always little-endian; the encoded bytes follow the
// configured endianness.
package bytescodec

import (
	"encoding/binary"
	"fmt"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

// Endian names the two orderings the "bytes" codec configuration accepts.
type Endian string

const (
	Little Endian = "little"
	Big    Endian = "big"
)

func (e Endian) order() (binary.ByteOrder, error) {
	switch e {
	case Little, "":
		return binary.LittleEndian, nil
	case Big:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("bytescodec: unrecognised endian %q", e)
	}
}

// Config is the `configuration` object of the "bytes" codec's metadata.
type Config struct {
	Endian Endian `json:"endian,omitempty"`
}

// Codec is the bytes codec instance.
type Codec struct {
	endian Endian
	order  binary.ByteOrder
}

// New builds a Codec for the given endianness ("" defaults to little).
func New(endian Endian) (*Codec, error) {
	order, err := endian.order()
	if err != nil {
		return nil, err
	}
	return &Codec{endian: endian, order: order}, nil
}

func init() {
	codec.Register("bytes", codec.KindArrayToBytes, func(meta codec.Metadata) (interface{}, error) {
		var cfg Config
		if err := meta.DecodeConfiguration(&cfg); err != nil {
			return nil, err
		}
		return New(cfg.Endian)
	})
}

func (c *Codec) Name() string { return "bytes" }

func (c *Codec) RecommendedConcurrency(rep codec.ChunkRepresentation) (codec.RecommendedConcurrency, error) {
	return codec.RecommendedConcurrency{Min: 1, Max: 1}, nil
}

func (c *Codec) PartialDecoderShouldCacheInput() bool { return false }
func (c *Codec) PartialDecoderDecodesAll() bool       { return false }

// Encode serializes decoded (assumed to already be laid out as
// little-endian element bytes, the in-memory convention throughout this
// module) into c's configured endianness.
func (c *Codec) Encode(decoded []byte, rep codec.ChunkRepresentation, opts codec.Options) ([]byte, error) {
	if c.order == binary.LittleEndian || rep.DataType.Size() <= 1 {
		return decoded, nil
	}
	return swapBytes(decoded, rep.DataType.Size()), nil
}

// Decode reverses Encode.
func (c *Codec) Decode(encoded []byte, rep codec.ChunkRepresentation, opts codec.Options) ([]byte, error) {
	if c.order == binary.LittleEndian || rep.DataType.Size() <= 1 {
		return encoded, nil
	}
	return swapBytes(encoded, rep.DataType.Size()), nil
}

func (c *Codec) ComputeEncodedSize(rep codec.ChunkRepresentation) (codec.BytesRepresentation, error) {
	return codec.BytesRepresentation{Kind: codec.Known, Size: rep.Size()}, nil
}

func (c *Codec) DecodeIntoArrayView(encoded []byte, rep codec.ChunkRepresentation, view *codec.ArrayView, opts codec.Options) error {
	decoded, err := c.Decode(encoded, rep, opts)
	if err != nil {
		return err
	}
	return view.WriteDecoded(decoded)
}

func (c *Codec) PartialDecoder(upstream codec.BytesPartialDecoder, rep codec.ChunkRepresentation, opts codec.Options) (codec.ArrayPartialDecoder, error) {
	return &partialDecoder{upstream: upstream, codec: c, rep: rep}, nil
}

type partialDecoder struct {
	upstream codec.BytesPartialDecoder
	codec    *Codec
	rep      codec.ChunkRepresentation
}

func (d *partialDecoder) ElementSize() int { return d.rep.DataType.Size() }

// PartialDecode translates each requested array subset into the
// corresponding element-aligned byte ranges (via ContiguousLinearisedIndices)
// and asks the upstream byte source for exactly those ranges, then
// byte-swaps each range if required. This is the "bytes" codec's whole
// reason for supporting true partial decoding: a flat byte layout means a
// subset's element ranges are also its byte ranges.
func (d *partialDecoder) PartialDecode(subsets []arraysubset.Subset, opts codec.Options) ([][]byte, bool, error) {
	elemSize := uint64(d.rep.DataType.Size())
	allRanges := make([][]arraysubset.ByteRange, len(subsets))
	var flatRanges []arraysubset.ByteRange
	runCounts := make([]int, len(subsets))
	for i, s := range subsets {
		runs, err := s.ContiguousLinearisedIndices(d.rep.ChunkShape)
		if err != nil {
			return nil, false, err
		}
		ranges := make([]arraysubset.ByteRange, len(runs))
		for j, r := range runs {
			length := r.Length * elemSize
			ranges[j] = arraysubset.FromStart(r.Start*elemSize, &length)
		}
		allRanges[i] = ranges
		runCounts[i] = len(ranges)
		flatRanges = append(flatRanges, ranges...)
	}

	bufs, ok, err := d.upstream.PartialDecode(flatRanges, opts)
	if err != nil || !ok {
		return nil, ok, err
	}

	out := make([][]byte, len(subsets))
	pos := 0
	for i := range subsets {
		var buf []byte
		for j := 0; j < runCounts[i]; j++ {
			buf = append(buf, bufs[pos]...)
			pos++
		}
		if d.codec.order != binary.LittleEndian && elemSize > 1 {
			buf = swapBytes(buf, int(elemSize))
		}
		out[i] = buf
	}
	return out, true, nil
}

func swapBytes(data []byte, elemSize int) []byte {
	out := make([]byte, len(data))
	for off := 0; off+elemSize <= len(data); off += elemSize {
		for i := 0; i < elemSize; i++ {
			out[off+i] = data[off+elemSize-1-i]
		}
	}
	return out
}
