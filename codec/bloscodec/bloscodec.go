// Package bloscodec implements the "blosc" bytes→bytes codec using
// github.com/mrjoshuak/go-blosc, the same compressor the teacher repo
// calls out to for its "blosc" compressor branch (reader.go's switch on
// Metadata.Compressor.ID).
package bloscodec

import (
	"fmt"

	"github.com/mrjoshuak/go-blosc"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

// Shuffle selects blosc's intra-element byte shuffling filter, which
// improves compression ratio for typed numeric data by regrouping same-
// significance bytes across elements before the entropy coder runs.
type Shuffle int

const (
	NoShuffle Shuffle = iota
	ByteShuffle
	BitShuffle
)

// Config is the `configuration` object of the "blosc" codec's metadata.
type Config struct {
	Cname   string  `json:"cname"`
	Clevel  int     `json:"clevel"`
	Shuffle Shuffle `json:"shuffle"`
	Typesize int    `json:"typesize"`
}

// Codec is the blosc codec instance.
type Codec struct {
	clevel   int
	shuffle  Shuffle
	typesize int
}

// New builds a Codec. typesize should be the data type's element size in
// bytes, which blosc's shuffle filter needs to regroup significance bytes
// correctly; clevel is blosc's 0-9 compression level.
func New(clevel int, shuffle Shuffle, typesize int) (*Codec, error) {
	if clevel < 0 || clevel > 9 {
		return nil, fmt.Errorf("bloscodec: clevel %d out of range [0, 9]", clevel)
	}
	if typesize < 1 {
		return nil, fmt.Errorf("bloscodec: typesize must be positive, got %d", typesize)
	}
	return &Codec{clevel: clevel, shuffle: shuffle, typesize: typesize}, nil
}

func init() {
	codec.Register("blosc", codec.KindBytesToBytes, func(meta codec.Metadata) (interface{}, error) {
		cfg := Config{Clevel: 5, Typesize: 4}
		if err := meta.DecodeConfiguration(&cfg); err != nil {
			return nil, err
		}
		return New(cfg.Clevel, cfg.Shuffle, cfg.Typesize)
	})
}

func (c *Codec) Name() string { return "blosc" }

func (c *Codec) RecommendedConcurrency(rep codec.ChunkRepresentation) (codec.RecommendedConcurrency, error) {
	return codec.RecommendedConcurrency{Min: 1, Max: 1}, nil
}

func (c *Codec) PartialDecoderShouldCacheInput() bool { return true }
func (c *Codec) PartialDecoderDecodesAll() bool       { return true }

func (c *Codec) Encode(decoded []byte, opts codec.Options) ([]byte, error) {
	out, err := blosc.Compress(decoded, c.typesize, c.clevel, blosc.ShuffleType(c.shuffle))
	if err != nil {
		return nil, fmt.Errorf("bloscodec: %w", err)
	}
	return out, nil
}

func (c *Codec) Decode(encoded []byte, rep codec.BytesRepresentation, opts codec.Options) ([]byte, error) {
	out, err := blosc.Decompress(encoded)
	if err != nil {
		return nil, fmt.Errorf("bloscodec: %w", err)
	}
	return out, nil
}

func (c *Codec) ComputeEncodedSize(rep codec.BytesRepresentation) codec.BytesRepresentation {
	return codec.BytesRepresentation{Kind: codec.Unbounded}
}

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
