// Package codec defines the three codec capability surfaces (array→array,
// array→bytes, bytes→bytes), the partial-decoder machinery layered on top
// of them, and the plugin registry that metadata dispatches into. Concrete
// codec implementations live in their own leaf packages (bytescodec,
// gzipcodec, zstdcodec, bloscodec, crc32ccodec, transposecodec) and
// register themselves via init().
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/zarrtype"
)

// ChunkRepresentation is the decoded shape/type/fill-value triple a codec
// stage is asked to operate over.
type ChunkRepresentation struct {
	ChunkShape []uint64
	DataType   zarrtype.DataType
	FillValue  zarrtype.FillValue
}

// NumElements returns the product of ChunkShape.
func (r ChunkRepresentation) NumElements() uint64 {
	n := uint64(1)
	for _, v := range r.ChunkShape {
		n *= v
	}
	return n
}

// Size returns the decoded byte length: NumElements * element size.
func (r ChunkRepresentation) Size() uint64 {
	return r.NumElements() * uint64(r.DataType.Size())
}

// BytesRepresentationKind discriminates the three ways an encoded byte
// size can be known ahead of time.
type BytesRepresentationKind int

const (
	// Known means the encoded size is exactly Size bytes.
	Known BytesRepresentationKind = iota
	// Bounded means the encoded size is at most Size bytes.
	Bounded
	// Unbounded means the encoded size cannot be predicted.
	Unbounded
)

// BytesRepresentation is the result of predicting an encoded byte size
// through a codec stage, per spec.md §4.4.
type BytesRepresentation struct {
	Kind BytesRepresentationKind
	Size uint64 // meaningful only when Kind != Unbounded
}

// RecommendedConcurrency is a codec's guidance range for how many
// concurrent workers it can usefully absorb (spec.md §4.4, §5).
type RecommendedConcurrency struct {
	Min, Max int
}

// Options carries the per-call scheduler budget and cache toggles a codec
// consults but is free to ignore (spec.md §9 "optional parallelism
// internal to the codec").
type Options struct {
	// ConcurrentTarget is the requested degree of parallelism this codec
	// invocation may use internally.
	ConcurrentTarget int
	// CachingDisabled stops the codec chain from inserting partial
	// decoder caches (spec.md §4.5). The zero value leaves caching on.
	CachingDisabled bool
}

// DefaultOptions returns an Options bundle with a ConcurrentTarget of 1
// and caching on. The root package's non-opt array operations do not use
// it; they take their throughput-maximising default from zarr.DefaultOptions.
func DefaultOptions() Options {
	return Options{ConcurrentTarget: 1}
}

// CodecTraits is implemented by every codec stage (array→array,
// array→bytes, bytes→bytes) and by Chain itself.
type CodecTraits interface {
	Name() string
	RecommendedConcurrency(rep ChunkRepresentation) (RecommendedConcurrency, error)
	PartialDecoderShouldCacheInput() bool
	PartialDecoderDecodesAll() bool
}

// ArrayToArrayCodec transforms decoded chunk bytes to another decoded
// representation, preserving element count (e.g. transpose).
type ArrayToArrayCodec interface {
	CodecTraits
	Encode(decoded []byte, rep ChunkRepresentation, opts Options) ([]byte, error)
	Decode(encoded []byte, rep ChunkRepresentation, opts Options) ([]byte, error)
	ComputeEncodedSize(rep ChunkRepresentation) (ChunkRepresentation, error)
	PartialDecoder(upstream ArrayPartialDecoder, rep ChunkRepresentation, opts Options) (ArrayPartialDecoder, error)
}

// ArrayToBytesCodec transforms decoded chunk bytes into the serialized
// byte representation. Exactly one must appear in a codec chain.
type ArrayToBytesCodec interface {
	CodecTraits
	Encode(decoded []byte, rep ChunkRepresentation, opts Options) ([]byte, error)
	Decode(encoded []byte, rep ChunkRepresentation, opts Options) ([]byte, error)
	ComputeEncodedSize(rep ChunkRepresentation) (BytesRepresentation, error)
	PartialDecoder(upstream BytesPartialDecoder, rep ChunkRepresentation, opts Options) (ArrayPartialDecoder, error)
	// DecodeIntoArrayView decodes directly into view, when this codec can
	// do so more efficiently than a generic Decode+copy. Codecs without a
	// specialised path may implement it as Decode followed by
	// view.WriteDecoded.
	DecodeIntoArrayView(encoded []byte, rep ChunkRepresentation, view *ArrayView, opts Options) error
}

// BytesToBytesCodec transforms encoded bytes to another byte stream (e.g.
// compression, checksums).
type BytesToBytesCodec interface {
	CodecTraits
	Encode(encoded []byte, opts Options) ([]byte, error)
	Decode(encoded []byte, rep BytesRepresentation, opts Options) ([]byte, error)
	ComputeEncodedSize(rep BytesRepresentation) BytesRepresentation
	PartialDecoder(upstream BytesPartialDecoder, rep BytesRepresentation, opts Options) (BytesPartialDecoder, error)
}

// BytesPartialDecoder serves byte ranges from an underlying encoded byte
// stream without materialising the whole thing, when possible.
type BytesPartialDecoder interface {
	// PartialDecode returns one buffer per requested range, in order. ok
	// is false iff the underlying source is entirely absent (e.g. the
	// backing store key does not exist).
	PartialDecode(ranges []arraysubset.ByteRange, opts Options) (buffers [][]byte, ok bool, err error)
}

// ArrayPartialDecoder serves array subsets from an underlying encoded
// chunk without materialising the whole thing, when possible.
type ArrayPartialDecoder interface {
	// PartialDecode returns one decoded buffer per requested subset, in
	// order. ok is false iff the underlying chunk is entirely absent.
	PartialDecode(subsets []arraysubset.Subset, opts Options) (buffers [][]byte, ok bool, err error)
	ElementSize() int
}

// ArrayView is a mutable typed rectangular window into a caller-owned
// buffer (spec.md §3 "Array view"): a target subset of some logical array
// shape, backed by a flat byte buffer at a fixed element size.
type ArrayView struct {
	Buffer      []byte
	BufferShape []uint64
	Subset      arraysubset.Subset
	ElementSize int
}

// WriteDecoded writes decoded (consumed in row-major order, per the
// ArrayView's Subset linearised against BufferShape) into the view's
// buffer, per spec.md §4.6 "Retrieve chunk into array view".
func (v *ArrayView) WriteDecoded(decoded []byte) error {
	runs, err := v.Subset.ContiguousLinearisedIndices(v.BufferShape)
	if err != nil {
		return err
	}
	decodedOffset := 0
	for _, run := range runs {
		n := int(run.Length) * v.ElementSize
		bufOffset := int(run.Start) * v.ElementSize
		if bufOffset+n > len(v.Buffer) {
			return fmt.Errorf("codec: array view write out of buffer bounds")
		}
		if decodedOffset+n > len(decoded) {
			return fmt.Errorf("codec: decoded data shorter than array view requires")
		}
		copy(v.Buffer[bufOffset:bufOffset+n], decoded[decodedOffset:decodedOffset+n])
		decodedOffset += n
	}
	return nil
}

// Metadata is the generic {name, configuration} pair codecs, chunk grids,
// data types, chunk key encodings, and storage transformers are all
// dispatched from (spec.md §6, §9 "Dynamic dispatch over plugins").
type Metadata struct {
	Name          string          `json:"name"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// DecodeConfiguration unmarshals m's configuration object into out.
func (m Metadata) DecodeConfiguration(out interface{}) error {
	if len(m.Configuration) == 0 {
		return nil
	}
	return json.Unmarshal(m.Configuration, out)
}
