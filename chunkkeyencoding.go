package zarr

import (
	"strconv"
	"strings"
)

// ChunkKeyEncoding maps a chunk's grid indices to its store key, relative
// to the array's own metadata key (spec.md §6). Grounded on the teacher's
// ChunkKey(indices, separator) (chunk.go), generalised to the two Zarr v3
// variants.
type ChunkKeyEncoding interface {
	EncodeChunkKey(indices []uint64) string
	Name() string
}

// DefaultChunkKeyEncoding is Zarr v3's "default" chunk key encoding:
// "c" followed by each index joined with separator (conventionally "/"),
// e.g. indices [1, 4] -> "c/1/4". A 0-d array's single chunk is "c".
type DefaultChunkKeyEncoding struct {
	Separator string
}

// NewDefaultChunkKeyEncoding builds a DefaultChunkKeyEncoding with the
// given separator ("/" per spec.md §6 if unset).
func NewDefaultChunkKeyEncoding(separator string) DefaultChunkKeyEncoding {
	if separator == "" {
		separator = "/"
	}
	return DefaultChunkKeyEncoding{Separator: separator}
}

func (e DefaultChunkKeyEncoding) Name() string { return "default" }

func (e DefaultChunkKeyEncoding) EncodeChunkKey(indices []uint64) string {
	if len(indices) == 0 {
		return "c"
	}
	var sb strings.Builder
	sb.WriteString("c")
	for _, idx := range indices {
		sb.WriteString(e.Separator)
		sb.WriteString(strconv.FormatUint(idx, 10))
	}
	return sb.String()
}

// V2ChunkKeyEncoding is Zarr v3's "v2" chunk key encoding, preserving the
// legacy Zarr v2 scheme the teacher repo's ChunkKey implements directly:
// indices joined by separator (conventionally "."), with no leading "c",
// and "0" for a 0-d array's single chunk.
type V2ChunkKeyEncoding struct {
	Separator string
}

// NewV2ChunkKeyEncoding builds a V2ChunkKeyEncoding with the given
// separator ("." if unset).
func NewV2ChunkKeyEncoding(separator string) V2ChunkKeyEncoding {
	if separator == "" {
		separator = "."
	}
	return V2ChunkKeyEncoding{Separator: separator}
}

func (e V2ChunkKeyEncoding) Name() string { return "v2" }

func (e V2ChunkKeyEncoding) EncodeChunkKey(indices []uint64) string {
	if len(indices) == 0 {
		return "0"
	}
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.FormatUint(idx, 10)
	}
	return strings.Join(parts, e.Separator)
}
