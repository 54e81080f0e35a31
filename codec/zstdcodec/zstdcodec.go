// Package zstdcodec implements the "zstd" bytes→bytes codec using
// klauspost/compress/zstd.
package zstdcodec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

// Config is the `configuration` object of the "zstd" codec's metadata.
type Config struct {
	Level    int  `json:"level"`
	Checksum bool `json:"checksum"`
}

// Codec is the zstd codec instance.
type Codec struct {
	level    zstd.EncoderLevel
	checksum bool
}

// New builds a Codec. level is a zstd compression level in [1, 22];
// checksum enables zstd's own frame checksum in addition to any
// crc32c codec configured elsewhere in the chain.
func New(level int, checksum bool) (*Codec, error) {
	if level < 1 || level > 22 {
		return nil, fmt.Errorf("zstdcodec: level %d out of range [1, 22]", level)
	}
	return &Codec{level: zstd.EncoderLevelFromZstd(level), checksum: checksum}, nil
}

func init() {
	codec.Register("zstd", codec.KindBytesToBytes, func(meta codec.Metadata) (interface{}, error) {
		cfg := Config{Level: 3}
		if err := meta.DecodeConfiguration(&cfg); err != nil {
			return nil, err
		}
		return New(cfg.Level, cfg.Checksum)
	})
}

func (c *Codec) Name() string { return "zstd" }

func (c *Codec) RecommendedConcurrency(rep codec.ChunkRepresentation) (codec.RecommendedConcurrency, error) {
	return codec.RecommendedConcurrency{Min: 1, Max: 1}, nil
}

func (c *Codec) PartialDecoderShouldCacheInput() bool { return true }
func (c *Codec) PartialDecoderDecodesAll() bool       { return true }

func (c *Codec) Encode(decoded []byte, opts codec.Options) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level), zstd.WithEncoderCRC(c.checksum))
	if err != nil {
		return nil, fmt.Errorf("zstdcodec: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(decoded, nil), nil
}

func (c *Codec) Decode(encoded []byte, rep codec.BytesRepresentation, opts codec.Options) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstdcodec: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(encoded, nil)
	if err != nil {
		return nil, fmt.Errorf("zstdcodec: %w", err)
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
