// Package ndarray bridges decoded Zarr array bytes to
// github.com/gomlx/gomlx/pkg/core/tensors.Tensor, the external N-D
// array container spec.md §1 calls out as an optional collaborator kept
// outside the core engine. Grounded on the teacher's zarr/dataset.go
// NextBatch, which returns *tensors.Tensor values built the same way.
package ndarray

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// ToTensor builds a *tensors.Tensor over shape from flat, typed decoded
// element data, via tensors.FromFlatDataAndDimensions — the one gomlx
// tensors API call observed in the retrieval pack (zarr/dataset.go's
// NextBatch). Callers decode a retrieved array subset with one of the
// root package's typed-elements helpers (e.g. zarr.Float32Elements)
// before calling this.
func ToTensor[T interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~uint64 | ~bool
}](flat []T, shape []uint64) (*tensors.Tensor, error) {
	dims := make([]int, len(shape))
	want := 1
	for i, d := range shape {
		dims[i] = int(d)
		want *= int(d)
	}
	if len(flat) != want {
		return nil, fmt.Errorf("ndarray: flat data has %d elements, shape %v wants %d", len(flat), shape, want)
	}
	return tensors.FromFlatDataAndDimensions(flat, dims...), nil
}

// FromTensor, the tensor -> flat data direction, is intentionally not
// implemented: no file in the retrieval pack exercises any gomlx
// tensors API for reading a Tensor's contents back out, so there is
// nothing here to ground an implementation on without guessing at an
// unverified method signature. See DESIGN.md.
