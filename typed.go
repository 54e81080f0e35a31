package zarr

import (
	"context"

	"github.com/zarr-go/zarrs/zarrtype"
)

// RetrieveArraySubsetFloat32 is the typed-elements flavour of
// RetrieveArraySubset for Float32 arrays (spec.md §4.6 "four flavours
// that share a single core implementation": bytes, typed-elements, N-D
// array container, explicit-options). Other data types follow the same
// pattern via elements.go's Encode*Elements/*Elements pairs; Float32 is
// implemented here as the representative case, mirroring the teacher's
// copyChunkToBatch dtype switch (dataset.go) which only special-cases
// the dtypes its own batches actually use.
func (a *Array) RetrieveArraySubsetFloat32(ctx context.Context, subset Subset) ([]float32, error) {
	if err := checkElementSize(a.dataType, zarrtype.Float32); err != nil {
		return nil, err
	}
	raw, err := a.RetrieveArraySubset(ctx, subset)
	if err != nil {
		return nil, err
	}
	return Float32Elements(raw)
}

// StoreArraySubsetFloat32 is the typed-elements flavour of
// StoreArraySubset for Float32 arrays.
func (a *Array) StoreArraySubsetFloat32(ctx context.Context, subset Subset, vals []float32) error {
	if err := checkElementSize(a.dataType, zarrtype.Float32); err != nil {
		return err
	}
	return a.StoreArraySubset(ctx, subset, EncodeFloat32Elements(vals))
}
