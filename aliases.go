package zarr

import "github.com/zarr-go/zarrs/arraysubset"

// Subset is a rectangular N-D region, aliased here so callers of this
// package's public API do not need a separate import for every call that
// names one (spec.md §3 "Subset").
type Subset = arraysubset.Subset

// NewSubset builds a Subset from a start coordinate and shape.
func NewSubset(start, shape []uint64) Subset {
	return arraysubset.New(start, shape)
}
