package chunkgrid

import (
	"fmt"
	"sort"
)

// RectangularDimension describes one axis of a Rectangular chunk grid:
// either a single fixed chunk size applied uniformly (behaving like a
// Regular axis), or an explicit, ordered table of per-chunk sizes.
type RectangularDimension struct {
	fixed    bool
	fixedLen uint64
	sizes    []uint64
	offsets  []uint64 // derived: offsets[i] = sum(sizes[:i]), strictly increasing from 0
}

// FixedDimension declares an axis tiled uniformly with chunks of the given
// size, like a Regular grid axis.
func FixedDimension(size uint64) (RectangularDimension, error) {
	if size == 0 {
		return RectangularDimension{}, fmt.Errorf("chunkgrid: fixed dimension size must be positive")
	}
	return RectangularDimension{fixed: true, fixedLen: size}, nil
}

// VaryingDimension declares an axis tiled by an explicit, ordered sequence
// of chunk sizes. Offsets are derived as a running sum starting at 0,
// which by construction satisfies spec.md invariant 3 (strictly increasing
// from 0) as long as every size is positive.
func VaryingDimension(sizes []uint64) (RectangularDimension, error) {
	if len(sizes) == 0 {
		return RectangularDimension{}, fmt.Errorf("chunkgrid: varying dimension must have at least one chunk size")
	}
	offsets := make([]uint64, len(sizes))
	offset := uint64(0)
	for i, s := range sizes {
		if s == 0 {
			return RectangularDimension{}, fmt.Errorf("chunkgrid: varying dimension size %d is zero", i)
		}
		offsets[i] = offset
		offset += s
	}
	sz := make([]uint64, len(sizes))
	copy(sz, sizes)
	return RectangularDimension{sizes: sz, offsets: offsets}, nil
}

func (d RectangularDimension) total() uint64 {
	if d.fixed {
		return 0 // unbounded: a fixed dimension has no declared total extent
	}
	if len(d.sizes) == 0 {
		return 0
	}
	last := len(d.sizes) - 1
	return d.offsets[last] + d.sizes[last]
}

// Rectangular is a chunk grid with a per-axis, possibly non-uniform table
// of chunk offsets and sizes. A Fixed axis reduces to Regular-style
// closed-form arithmetic; a Varying axis is resolved by binary search on
// its offset table.
type Rectangular struct {
	dims []RectangularDimension
}

// NewRectangular constructs a Rectangular chunk grid from one dimension
// spec per axis.
func NewRectangular(dims []RectangularDimension) *Rectangular {
	cp := make([]RectangularDimension, len(dims))
	copy(cp, dims)
	return &Rectangular{dims: cp}
}

func (g *Rectangular) Dimensionality() int { return len(g.dims) }

// gridSizeAxis returns the number of chunks along axis; ok is false only
// when a varying axis's chunk sizes do not sum to the array's extent along
// it. An "unbounded" axis (array shape 0 against a Fixed dimension)
// reports 0 chunks with ok true. Per the Open Question in spec.md §9, this module resolves an unbounded
// axis's grid size to 0 chunks, matching the literal behaviour of the
// source this spec was distilled from (see DESIGN.md).
func (g *Rectangular) gridSizeAxis(axis int, arrayShape []uint64) (size uint64, ok bool) {
	d := g.dims[axis]
	a := arrayShape[axis]
	if d.fixed {
		if a == 0 {
			return 0, true
		}
		return (a + d.fixedLen - 1) / d.fixedLen, true
	}
	if a == d.total() {
		return uint64(len(d.sizes)), true
	}
	return 0, false
}

func (g *Rectangular) GridShape(arrayShape []uint64) ([]uint64, bool) {
	if len(arrayShape) != len(g.dims) {
		return nil, false
	}
	out := make([]uint64, len(g.dims))
	for i := range g.dims {
		size, ok := g.gridSizeAxis(i, arrayShape)
		if !ok {
			return nil, false
		}
		out[i] = size
	}
	return out, true
}

func (g *Rectangular) ChunkShape(chunkIndices, arrayShape []uint64) ([]uint64, bool) {
	if len(chunkIndices) != len(g.dims) {
		return nil, false
	}
	out := make([]uint64, len(g.dims))
	for i, d := range g.dims {
		if d.fixed {
			out[i] = d.fixedLen
			continue
		}
		idx := chunkIndices[i]
		if idx >= uint64(len(d.sizes)) {
			return nil, false
		}
		out[i] = d.sizes[idx]
	}
	return out, true
}

func (g *Rectangular) ChunkOrigin(chunkIndices, arrayShape []uint64) ([]uint64, bool) {
	if len(chunkIndices) != len(g.dims) {
		return nil, false
	}
	out := make([]uint64, len(g.dims))
	for i, d := range g.dims {
		if d.fixed {
			out[i] = chunkIndices[i] * d.fixedLen
			continue
		}
		idx := chunkIndices[i]
		if idx >= uint64(len(d.offsets)) {
			return nil, false
		}
		out[i] = d.offsets[idx]
	}
	return out, true
}

func (g *Rectangular) ChunkIndices(arrayIndices, arrayShape []uint64) ([]uint64, bool) {
	if len(arrayIndices) != len(g.dims) {
		return nil, false
	}
	out := make([]uint64, len(g.dims))
	for i, d := range g.dims {
		if d.fixed {
			out[i] = arrayIndices[i] / d.fixedLen
			continue
		}
		idx := arrayIndices[i]
		if idx >= d.total() {
			return nil, false
		}
		// partition point: count of offsets <= idx, minus one.
		n := sort.Search(len(d.offsets), func(k int) bool { return d.offsets[k] > idx })
		if n == 0 {
			return nil, false
		}
		out[i] = uint64(n - 1)
	}
	return out, true
}

func (g *Rectangular) ChunkElementIndices(arrayIndices, arrayShape []uint64) ([]uint64, bool) {
	chunkIndices, ok := g.ChunkIndices(arrayIndices, arrayShape)
	if !ok {
		return nil, false
	}
	origin, ok := g.ChunkOrigin(chunkIndices, arrayShape)
	if !ok {
		return nil, false
	}
	out := make([]uint64, len(arrayIndices))
	for i := range arrayIndices {
		out[i] = arrayIndices[i] - origin[i]
	}
	return out, true
}

func (g *Rectangular) ArrayIndicesInbounds(arrayIndices, arrayShape []uint64) bool {
	if len(arrayIndices) != len(g.dims) || len(arrayShape) != len(g.dims) {
		return false
	}
	for i, d := range g.dims {
		a := arrayShape[i]
		idx := arrayIndices[i]
		if a != 0 && idx >= a {
			return false
		}
		if !d.fixed && idx >= d.total() {
			return false
		}
	}
	return true
}

func (g *Rectangular) ChunkIndicesInbounds(chunkIndices, arrayShape []uint64) bool {
	if len(chunkIndices) != len(g.dims) || len(arrayShape) != len(g.dims) {
		return false
	}
	for i, d := range g.dims {
		if d.fixed {
			a := arrayShape[i]
			if a == 0 {
				continue // unbounded fixed axis: any chunk index is admissible
			}
			size, _ := g.gridSizeAxis(i, arrayShape)
			if chunkIndices[i] >= size {
				return false
			}
			continue
		}
		// Varying axes always bound against their declared table, the
		// only extent they ever have (spec.md §4.3, §9).
		if chunkIndices[i] >= uint64(len(d.offsets)) {
			return false
		}
	}
	return true
}
