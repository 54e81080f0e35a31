package zarr

import (
	"context"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
	"github.com/zarr-go/zarrs/storage"
)

// storeBytesPartialDecoder roots a codec chain's partial decoder stack
// at a single store key, translating codec.BytesPartialDecoder's
// range-based PartialDecode into Store.GetPartial calls (spec.md §4.4
// "a bytes partial decoder accepts byte ranges"). It is built fresh
// for each retrieve/store call rather than cached on the Array, so
// storing ctx here follows the same request-scoped lifetime as the
// call that constructs it, not the package-level "never store a
// Context" concern.
type storeBytesPartialDecoder struct {
	ctx   context.Context
	store storage.Store
	key   string
}

func newStoreBytesPartialDecoder(ctx context.Context, store storage.Store, key string) *storeBytesPartialDecoder {
	return &storeBytesPartialDecoder{ctx: ctx, store: store, key: key}
}

func (d *storeBytesPartialDecoder) PartialDecode(ranges []arraysubset.ByteRange, opts codec.Options) ([][]byte, bool, error) {
	return d.store.GetPartial(d.ctx, d.key, ranges)
}
