// Package chunkgrid implements the variants of the Zarr chunk grid: the
// tiling rule that partitions an array into chunks and maps between array
// coordinates and chunk coordinates.
package chunkgrid

// Grid maps an array shape to a chunk grid: the number of chunks along
// each axis, the shape/origin of an individual chunk, and the translation
// between array-element coordinates and chunk coordinates.
//
// Implementations: Regular (closed-form arithmetic over a fixed chunk
// shape) and Rectangular (a per-axis explicit offset/size table).
type Grid interface {
	// Dimensionality is the number of axes this grid was constructed for.
	Dimensionality() int

	// GridShape returns the number of chunks along each axis for an array
	// of the given shape, or ok=false if arrayShape is incompatible with
	// this grid (e.g. wrong dimensionality, or a rectangular grid whose
	// declared extents don't sum to arrayShape).
	GridShape(arrayShape []uint64) (shape []uint64, ok bool)

	// ChunkShape returns the declared shape of the chunk at chunkIndices.
	// It is not bounded to the array extent; callers wanting an
	// edge-of-array-bounded shape must intersect with the array shape
	// themselves.
	ChunkShape(chunkIndices, arrayShape []uint64) (shape []uint64, ok bool)

	// ChunkOrigin returns the array-coordinate origin of the chunk at
	// chunkIndices.
	ChunkOrigin(chunkIndices, arrayShape []uint64) (origin []uint64, ok bool)

	// ChunkIndices returns the chunk grid coordinates containing the given
	// array-element coordinates.
	ChunkIndices(arrayIndices, arrayShape []uint64) (chunkIndices []uint64, ok bool)

	// ChunkElementIndices returns arrayIndices expressed relative to the
	// origin of the chunk that contains them.
	ChunkElementIndices(arrayIndices, arrayShape []uint64) (elementIndices []uint64, ok bool)

	// ArrayIndicesInbounds reports whether arrayIndices is a valid element
	// coordinate of an array with the given shape.
	ArrayIndicesInbounds(arrayIndices, arrayShape []uint64) bool

	// ChunkIndicesInbounds reports whether chunkIndices addresses a chunk
	// that exists in the grid of an array with the given shape.
	ChunkIndicesInbounds(chunkIndices, arrayShape []uint64) bool
}

func dimsMatch(a, b []uint64) bool { return len(a) == len(b) }
