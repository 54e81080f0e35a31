package zarr

import (
	"encoding/json"

	"github.com/zarr-go/zarrs/codec"
	"github.com/zarr-go/zarrs/storage"
)

// ArrayBuilder constructs a new Array's metadata in memory, to be
// mutated freely until Build validates and instantiates it (spec.md §3
// "Array metadata is created in-memory by a builder"). Mirrors the Rust
// crate's ArrayBuilder and the teacher's direct-construction style
// (NewReader, NewDataset), expressed here as a functional-options chain
// rather than a single constructor call, since an array's metadata has
// far more optional fields than the teacher's Reader ever did.
type ArrayBuilder struct {
	store storage.Store
	path  string
	meta  *ArrayMetadata
}

// NewArrayBuilder starts a builder for an array of the given shape and
// data type name, defaulting to the "default" chunk key encoding (the
// Zarr v3 default) with no chunk grid or codecs set; callers must supply
// those via WithRegularChunkGrid/WithRectangularChunkGrid and WithCodecs
// before Build.
func NewArrayBuilder(store storage.Store, path string, shape []uint64, dataType string) *ArrayBuilder {
	return &ArrayBuilder{
		store: store,
		path:  path,
		meta: &ArrayMetadata{
			ZarrFormat:  3,
			NodeType:    "array",
			Shape:       append([]uint64(nil), shape...),
			DataType:    dataType,
			ChunkKeyEnc: codec.Metadata{Name: "default"},
			FillValue:   json.RawMessage("0"),
		},
	}
}

// WithRegularChunkGrid sets a "regular" chunk grid with the given
// per-axis chunk shape.
func (b *ArrayBuilder) WithRegularChunkGrid(chunkShape []uint64) *ArrayBuilder {
	cfg, _ := json.Marshal(struct {
		ChunkShape []uint64 `json:"chunk_shape"`
	}{chunkShape})
	b.meta.ChunkGrid = codec.Metadata{Name: "regular", Configuration: cfg}
	return b
}

// WithRectangularChunkGrid sets a "rectangular" chunk grid with the
// given per-axis chunk size tables (a single-element axis is fixed, a
// multi-element axis is the explicit per-chunk size sequence).
func (b *ArrayBuilder) WithRectangularChunkGrid(chunkShapes [][]uint64) *ArrayBuilder {
	cfg, _ := json.Marshal(struct {
		ChunkShapes [][]uint64 `json:"chunk_shapes"`
	}{chunkShapes})
	b.meta.ChunkGrid = codec.Metadata{Name: "rectangular", Configuration: cfg}
	return b
}

// WithChunkKeyEncoding sets the chunk key encoding by name ("default" or
// "v2") and separator (empty string uses that encoding's own default).
func (b *ArrayBuilder) WithChunkKeyEncoding(name, separator string) *ArrayBuilder {
	cfg, _ := json.Marshal(struct {
		Separator string `json:"separator,omitempty"`
	}{separator})
	b.meta.ChunkKeyEnc = codec.Metadata{Name: name, Configuration: cfg}
	return b
}

// WithFillValue sets the fill_value metadata document directly, in any
// form ParseJSON accepts (a number, a bool, a "0x..." hex string, a
// special float token, or a [re, im] pair).
func (b *ArrayBuilder) WithFillValue(v interface{}) *ArrayBuilder {
	raw, _ := json.Marshal(v)
	b.meta.FillValue = raw
	return b
}

// WithCodecs sets the array's codec chain metadata, in encode order:
// array->array codecs, then exactly one array->bytes codec, then
// bytes->bytes codecs.
func (b *ArrayBuilder) WithCodecs(codecs ...codec.Metadata) *ArrayBuilder {
	b.meta.Codecs = codecs
	return b
}

// WithAttributes sets the array's initial attributes.
func (b *ArrayBuilder) WithAttributes(attrs map[string]any) *ArrayBuilder {
	b.meta.Attributes = attrs
	return b
}

// WithDimensionNames sets the array's per-axis labels. len(names) must
// equal the array's dimensionality.
func (b *ArrayBuilder) WithDimensionNames(names []*string) *ArrayBuilder {
	b.meta.DimensionName = names
	return b
}

// WithStorageTransformers sets the array's storage transformer chain
// metadata. Every entry must currently name "identity" (spec.md §9).
func (b *ArrayBuilder) WithStorageTransformers(metas ...codec.Metadata) *ArrayBuilder {
	b.meta.StorageTransformers = metas
	return b
}

// Build validates the accumulated metadata and instantiates the Array.
// It does not write anything to the store; call StoreMetadata for that.
func (b *ArrayBuilder) Build() (*Array, error) {
	if err := b.meta.Validate(); err != nil {
		return nil, err
	}
	return fromMetadata(b.store, b.path, b.meta)
}
