package chunkgrid

import "fmt"

// Regular is a chunk grid with a single, fixed chunk shape applied
// uniformly along every axis: grid coordinates and origins are derived by
// closed-form integer arithmetic (index / size, index * size).
type Regular struct {
	chunkShape []uint64
}

// NewRegular constructs a Regular chunk grid. Every component of
// chunkShape must be strictly positive (spec.md invariant 2); NewRegular
// returns an error otherwise, since a zero-sized chunk axis would make
// every divisor below a division by zero.
func NewRegular(chunkShape []uint64) (*Regular, error) {
	for i, v := range chunkShape {
		if v == 0 {
			return nil, fmt.Errorf("chunkgrid: regular chunk shape component %d is zero", i)
		}
	}
	shape := make([]uint64, len(chunkShape))
	copy(shape, chunkShape)
	return &Regular{chunkShape: shape}, nil
}

// ChunkShapeDeclared returns the fixed chunk shape this grid was built
// with.
func (g *Regular) ChunkShapeDeclared() []uint64 {
	out := make([]uint64, len(g.chunkShape))
	copy(out, g.chunkShape)
	return out
}

func (g *Regular) Dimensionality() int { return len(g.chunkShape) }

func (g *Regular) GridShape(arrayShape []uint64) ([]uint64, bool) {
	if !dimsMatch(arrayShape, g.chunkShape) {
		return nil, false
	}
	out := make([]uint64, len(arrayShape))
	for i, a := range arrayShape {
		out[i] = (a + g.chunkShape[i] - 1) / g.chunkShape[i]
	}
	return out, true
}

func (g *Regular) ChunkShape(chunkIndices, arrayShape []uint64) ([]uint64, bool) {
	if !dimsMatch(chunkIndices, g.chunkShape) {
		return nil, false
	}
	out := make([]uint64, len(g.chunkShape))
	copy(out, g.chunkShape)
	return out, true
}

func (g *Regular) ChunkOrigin(chunkIndices, arrayShape []uint64) ([]uint64, bool) {
	if !dimsMatch(chunkIndices, g.chunkShape) {
		return nil, false
	}
	out := make([]uint64, len(chunkIndices))
	for i, idx := range chunkIndices {
		out[i] = idx * g.chunkShape[i]
	}
	return out, true
}

func (g *Regular) ChunkIndices(arrayIndices, arrayShape []uint64) ([]uint64, bool) {
	if !dimsMatch(arrayIndices, g.chunkShape) {
		return nil, false
	}
	out := make([]uint64, len(arrayIndices))
	for i, idx := range arrayIndices {
		out[i] = idx / g.chunkShape[i]
	}
	return out, true
}

func (g *Regular) ChunkElementIndices(arrayIndices, arrayShape []uint64) ([]uint64, bool) {
	if !dimsMatch(arrayIndices, g.chunkShape) {
		return nil, false
	}
	out := make([]uint64, len(arrayIndices))
	for i, idx := range arrayIndices {
		out[i] = idx % g.chunkShape[i]
	}
	return out, true
}

func (g *Regular) ArrayIndicesInbounds(arrayIndices, arrayShape []uint64) bool {
	if !dimsMatch(arrayIndices, arrayShape) || !dimsMatch(arrayIndices, g.chunkShape) {
		return false
	}
	for i, idx := range arrayIndices {
		if arrayShape[i] != 0 && idx >= arrayShape[i] {
			return false
		}
	}
	return true
}

func (g *Regular) ChunkIndicesInbounds(chunkIndices, arrayShape []uint64) bool {
	gridShape, ok := g.GridShape(arrayShape)
	if !ok {
		return false
	}
	for i, idx := range chunkIndices {
		if gridShape[i] != 0 && idx >= gridShape[i] {
			return false
		}
	}
	return true
}
