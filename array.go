package zarr

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/zarr-go/zarrs/chunkgrid"
	"github.com/zarr-go/zarrs/codec"
	"github.com/zarr-go/zarrs/storage"
	"github.com/zarr-go/zarrs/zarrtype"
)

// provenanceAttribute is the key Array.StoreMetadata injects into
// attributes when ProvenanceAttribute is set, recording this library's
// identity (spec.md §9 "Global provenance attribute").
const provenanceAttribute = "_zarrs_go"

// Array is the persistent identity (store, path) of a Zarr array, and
// the engine every retrieve/store operation below hangs off (spec.md §3
// "Array", §4.6 "State"). Grounded on the teacher's Reader (reader.go),
// generalised from a single read-only blosc/zlib-decoding reader into
// the full mutable read/write engine spec.md calls for.
type Array struct {
	store storage.Store
	path  string

	mu                  sync.RWMutex
	shape               []uint64
	attributes          map[string]any
	additionalFields     AdditionalFields
	storageTransformers []codec.Metadata

	// Immutable after construction.
	dataType       zarrtype.DataType
	grid           chunkgrid.Grid
	gridMeta       codec.Metadata
	keyEnc         ChunkKeyEncoding
	keyEncMeta     codec.Metadata
	fillValue      zarrtype.FillValue
	chain          *codec.Chain
	codecsMeta     []codec.Metadata
	dimensionNames []*string

	// ProvenanceAttribute controls whether StoreMetadata injects
	// provenanceAttribute into attributes (spec.md §9). Default true.
	ProvenanceAttribute bool
}

// Open loads and validates an array's metadata from store at path,
// instantiating its data type, chunk grid, chunk key encoding, codec
// chain, and storage transformers (spec.md §4.6 "Metadata").
func Open(ctx context.Context, store storage.Store, path string) (*Array, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	data, ok, err := store.Get(ctx, MetaKey(path))
	if err != nil {
		return nil, fmt.Errorf("zarr: opening array %q: %w", path, err)
	}
	if !ok {
		return nil, &ErrNodeNotFound{Path: path, Kind: NodeTypeArray}
	}
	meta, err := ParseArrayMetadata(data)
	if err != nil {
		return nil, fmt.Errorf("zarr: opening array %q: %w", path, err)
	}
	return fromMetadata(store, path, meta)
}

func fromMetadata(store storage.Store, path string, meta *ArrayMetadata) (*Array, error) {
	dt, err := meta.DataTypeParsed()
	if err != nil {
		return nil, &ErrInvalidMetadata{Path: path, Reason: err.Error()}
	}
	grid, err := meta.ChunkGridParsed()
	if err != nil {
		return nil, &ErrInvalidMetadata{Path: path, Reason: err.Error()}
	}
	if grid.Dimensionality() != len(meta.Shape) {
		return nil, &ErrDimensionalityMismatch{Context: "chunk_grid vs shape", Got: grid.Dimensionality(), Want: len(meta.Shape)}
	}
	keyEnc, err := meta.ChunkKeyEncodingParsed()
	if err != nil {
		return nil, &ErrInvalidMetadata{Path: path, Reason: err.Error()}
	}
	fillValue, err := meta.FillValueParsed(dt, binary.LittleEndian)
	if err != nil {
		return nil, &ErrInvalidMetadata{Path: path, Reason: err.Error()}
	}
	chain, err := codec.ChainFromMetadata(meta.Codecs)
	if err != nil {
		return nil, &ErrInvalidMetadata{Path: path, Reason: err.Error()}
	}
	for _, t := range meta.StorageTransformers {
		if t.Name != "identity" {
			return nil, &ErrPluginNotRegistered{Kind: "storage transformer", Name: t.Name}
		}
	}

	a := &Array{
		store:               wrapTransformers(store, meta.StorageTransformers),
		path:                path,
		shape:               append([]uint64(nil), meta.Shape...),
		attributes:          copyAttributes(meta.Attributes),
		additionalFields:    meta.AdditionalFields,
		storageTransformers: meta.StorageTransformers,
		dataType:            dt,
		grid:                grid,
		gridMeta:            meta.ChunkGrid,
		keyEnc:              keyEnc,
		keyEncMeta:          meta.ChunkKeyEnc,
		fillValue:           fillValue,
		chain:               chain,
		codecsMeta:          meta.Codecs,
		dimensionNames:      meta.DimensionName,
		ProvenanceAttribute: true,
	}
	return a, nil
}

func wrapTransformers(s storage.Store, metas []codec.Metadata) storage.Store {
	if !storage.TransformersEnabled {
		return s
	}
	for range metas {
		s = storage.IdentityTransformer{}.Wrap(s)
	}
	return s
}

func copyAttributes(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ToMetadata renders a's current state as an ArrayMetadata document.
func (a *Array) ToMetadata() *ArrayMetadata {
	a.mu.RLock()
	defer a.mu.RUnlock()

	attrs := copyAttributes(a.attributes)
	if a.ProvenanceAttribute {
		attrs[provenanceAttribute] = "github.com/zarr-go/zarrs"
	}
	return &ArrayMetadata{
		ZarrFormat:          3,
		NodeType:            "array",
		Shape:               append([]uint64(nil), a.shape...),
		DataType:            a.dataType.String(),
		ChunkGrid:           a.gridMeta,
		ChunkKeyEnc:         a.keyEncMeta,
		FillValue:           a.fillValue.ToJSON(),
		Codecs:              a.codecsMeta,
		Attributes:          attrs,
		DimensionName:       a.dimensionNames,
		StorageTransformers: a.storageTransformers,
		AdditionalFields:    a.additionalFields,
	}
}

// StoreMetadata serializes a's current metadata and writes it to the
// store under its path's zarr.json key.
func (a *Array) StoreMetadata(ctx context.Context) error {
	meta := a.ToMetadata()
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("zarr: marshalling metadata for %q: %w", a.path, err)
	}
	if err := a.store.Set(ctx, MetaKey(a.path), data); err != nil {
		return fmt.Errorf("zarr: storing metadata for %q: %w", a.path, err)
	}
	return nil
}

// Path returns the array's node path.
func (a *Array) Path() string { return a.path }

// Shape returns a copy of the array's current shape.
func (a *Array) Shape() []uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]uint64(nil), a.shape...)
}

// SetShape replaces the array's shape. The new shape must have the same
// dimensionality as the chunk grid it was constructed for.
func (a *Array) SetShape(shape []uint64) error {
	if len(shape) != a.grid.Dimensionality() {
		return &ErrDimensionalityMismatch{Context: "new shape vs chunk_grid", Got: len(shape), Want: a.grid.Dimensionality()}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shape = append([]uint64(nil), shape...)
	return nil
}

// DataType returns the array's element data type.
func (a *Array) DataType() zarrtype.DataType { return a.dataType }

// FillValue returns the array's fill value.
func (a *Array) FillValue() zarrtype.FillValue { return a.fillValue }

// ChunkGrid returns the array's chunk grid.
func (a *Array) ChunkGrid() chunkgrid.Grid { return a.grid }

// DimensionNames returns the array's optional per-axis labels, or nil.
func (a *Array) DimensionNames() []*string { return a.dimensionNames }

// Attributes returns a copy of the array's current attributes.
func (a *Array) Attributes() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyAttributes(a.attributes)
}

// SetAttributes replaces the array's attributes wholesale.
func (a *Array) SetAttributes(attrs map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attributes = copyAttributes(attrs)
}

// chunkRepresentation returns the decoded chunk_representation for
// chunkIndices: its declared chunk shape under the current array
// shape, the array's data type, and fill value (spec.md §4.6 "Retrieve
// whole chunk").
func (a *Array) chunkRepresentation(chunkIndices []uint64) (codec.ChunkRepresentation, error) {
	shape := a.Shape()
	if !a.grid.ChunkIndicesInbounds(chunkIndices, shape) {
		return codec.ChunkRepresentation{}, &ErrChunkIndicesOutOfBounds{ChunkIndices: chunkIndices}
	}
	chunkShape, ok := a.grid.ChunkShape(chunkIndices, shape)
	if !ok {
		return codec.ChunkRepresentation{}, &ErrChunkIndicesOutOfBounds{ChunkIndices: chunkIndices}
	}
	return codec.ChunkRepresentation{ChunkShape: chunkShape, DataType: a.dataType, FillValue: a.fillValue}, nil
}

func (a *Array) chunkKey(chunkIndices []uint64) string {
	return DataKey(a.path, chunkIndices, a.keyEnc)
}
