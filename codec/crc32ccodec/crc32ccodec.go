// Package crc32ccodec implements the "crc32c" bytes→bytes codec: appends
// a CRC-32C (Castagnoli) checksum of the encoded bytes on Encode, and
// verifies/strips it on Decode.
package crc32ccodec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Codec is the crc32c codec instance. It has no configuration.
type Codec struct{}

// New builds a Codec.
func New() *Codec { return &Codec{} }

func init() {
	codec.Register("crc32c", codec.KindBytesToBytes, func(meta codec.Metadata) (interface{}, error) {
		return New(), nil
	})
}

func (c *Codec) Name() string { return "crc32c" }

func (c *Codec) RecommendedConcurrency(rep codec.ChunkRepresentation) (codec.RecommendedConcurrency, error) {
	return codec.RecommendedConcurrency{Min: 1, Max: 1}, nil
}

func (c *Codec) PartialDecoderShouldCacheInput() bool { return true }
func (c *Codec) PartialDecoderDecodesAll() bool       { return true }

func (c *Codec) Encode(decoded []byte, opts codec.Options) ([]byte, error) {
	sum := crc32.Checksum(decoded, castagnoli)
	out := make([]byte, len(decoded)+4)
	copy(out, decoded)
	binary.LittleEndian.PutUint32(out[len(decoded):], sum)
	return out, nil
}

// Decode verifies the trailing checksum and returns the payload preceding
// it.
func (c *Codec) Decode(encoded []byte, rep codec.BytesRepresentation, opts codec.Options) ([]byte, error) {
	if len(encoded) < 4 {
		return nil, fmt.Errorf("crc32ccodec: encoded data shorter than checksum trailer")
	}
	payload := encoded[:len(encoded)-4]
	want := binary.LittleEndian.Uint32(encoded[len(encoded)-4:])
	got := crc32.Checksum(payload, castagnoli)
	if want != got {
		return nil, fmt.Errorf("crc32ccodec: checksum mismatch: stored %08x, computed %08x", want, got)
	}
	return payload, nil
}

func (c *Codec) ComputeEncodedSize(rep codec.BytesRepresentation) codec.BytesRepresentation {
	if rep.Kind == codec.Known {
		return codec.BytesRepresentation{Kind: codec.Known, Size: rep.Size + 4}
	}
	return rep
}

// PartialDecoder has no specialised support: the checksum covers the
// whole payload, so any partial read still requires decoding (and
// verifying) everything upstream.
func (c *Codec) PartialDecoder(upstream codec.BytesPartialDecoder, rep codec.BytesRepresentation, opts codec.Options) (codec.BytesPartialDecoder, error) {
	return &partialDecoder{upstream: upstream, codec: c}, nil
}

type partialDecoder struct {
	upstream codec.BytesPartialDecoder
	codec    *Codec
}

func (d *partialDecoder) PartialDecode(ranges []arraysubset.ByteRange, opts codec.Options) ([][]byte, bool, error) {
	fullRange := arraysubset.FromStart(0, nil)
	bufs, ok, err := d.upstream.PartialDecode([]arraysubset.ByteRange{fullRange}, opts)
	if err != nil || !ok {
		return nil, ok, err
	}
	decoded, err := d.codec.Decode(bufs[0], codec.BytesRepresentation{Kind: codec.Unbounded}, opts)
	if err != nil {
		return nil, false, err
	}
	out := make([][]byte, len(ranges))
	for i, r := range ranges {
		buf, err := r.Extract(decoded)
		if err != nil {
			return nil, false, err
		}
		out[i] = buf
	}
	return out, true, nil
}
