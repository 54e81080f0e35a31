package zarr

import (
	"fmt"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

// ArrayView is a mutable typed rectangular window into a caller-owned
// buffer, used by the RetrieveChunkIntoArrayView / RetrieveArraySubsetIntoArrayView
// family so repeated reads into the same destination (e.g. a batch
// tensor being filled chunk by chunk) avoid an intermediate allocation
// per chunk (spec.md §3 "Array view", §4.6).
type ArrayView = codec.ArrayView

// NewArrayView builds an ArrayView over buffer, shaped as bufferShape,
// targeting subset within it, for elements of elementSize bytes.
func NewArrayView(buffer []byte, bufferShape []uint64, subset Subset, elementSize int) *ArrayView {
	return &ArrayView{Buffer: buffer, BufferShape: bufferShape, Subset: subset, ElementSize: elementSize}
}

// ExtractSlab gathers region out of buf (shaped bufShape, row-major, at
// elemSize bytes per element) into a tightly-packed slab, the inverse of
// ArrayView.WriteDecoded. Used by StoreArraySubset-family operations to
// cut a per-chunk slice out of a caller's larger source buffer before
// handing it to a codec chain's Encode.
func ExtractSlab(buf []byte, bufShape []uint64, region arraysubset.Subset, elemSize int) ([]byte, error) {
	runs, err := region.ContiguousLinearisedIndices(bufShape)
	if err != nil {
		return nil, err
	}
	out := make([]byte, region.NumElements()*uint64(elemSize))
	pos := 0
	for _, run := range runs {
		n := int(run.Length) * elemSize
		bufOffset := int(run.Start) * elemSize
		if bufOffset+n > len(buf) {
			return nil, fmt.Errorf("zarr: slab extraction out of buffer bounds")
		}
		copy(out[pos:pos+n], buf[bufOffset:bufOffset+n])
		pos += n
	}
	return out, nil
}
