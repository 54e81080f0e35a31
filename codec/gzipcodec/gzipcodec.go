// Package gzipcodec implements the "gzip" bytes→bytes codec using
// klauspost/compress/gzip, a drop-in faster replacement for the standard
// library package used throughout the teacher repo's compression paths.
package gzipcodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

// Config is the `configuration` object of the "gzip" codec's metadata.
type Config struct {
	Level int `json:"level"`
}

// Codec is the gzip codec instance.
type Codec struct {
	level int
}

// New builds a Codec at the given compression level (-1 to 9: -1 selects
// the library default, 0 stores without compression, 1-9 trade speed for
// size).
func New(level int) (*Codec, error) {
	if level < gzip.DefaultCompression || level > gzip.BestCompression {
		return nil, fmt.Errorf("gzipcodec: level %d out of range [%d, %d]", level, gzip.DefaultCompression, gzip.BestCompression)
	}
	return &Codec{level: level}, nil
}

func init() {
	codec.Register("gzip", codec.KindBytesToBytes, func(meta codec.Metadata) (interface{}, error) {
		cfg := Config{Level: gzip.DefaultCompression}
		if err := meta.DecodeConfiguration(&cfg); err != nil {
			return nil, err
		}
		return New(cfg.Level)
	})
}

func (c *Codec) Name() string { return "gzip" }

func (c *Codec) RecommendedConcurrency(rep codec.ChunkRepresentation) (codec.RecommendedConcurrency, error) {
	return codec.RecommendedConcurrency{Min: 1, Max: 1}, nil
}

func (c *Codec) PartialDecoderShouldCacheInput() bool { return true }
func (c *Codec) PartialDecoderDecodesAll() bool       { return true }

func (c *Codec) Encode(decoded []byte, opts codec.Options) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("gzipcodec: %w", err)
	}
	if _, err := w.Write(decoded); err != nil {
		return nil, fmt.Errorf("gzipcodec: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzipcodec: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Codec) Decode(encoded []byte, rep codec.BytesRepresentation, opts codec.Options) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("gzipcodec: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzipcodec: %w", err)
	}
	return out, nil
}

func (c *Codec) ComputeEncodedSize(rep codec.BytesRepresentation) codec.BytesRepresentation {
	return codec.BytesRepresentation{Kind: codec.Unbounded}
}

// PartialDecoder has no specialised partial-decode path for gzip streams:
// it decodes the whole stream and slices byte ranges out of it, which is
// why PartialDecoderDecodesAll reports true and a Chain inserts a cache
// immediately upstream of this stage.
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
