package zarr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/codec"
	_ "github.com/zarr-go/zarrs/codec/gzipcodec"
	"github.com/zarr-go/zarrs/storage"
)

func newTestArray(t *testing.T, shape, chunkShape []uint64) (*Array, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore(storage.NoLocking)
	b := NewArrayBuilder(store, "arr", shape, "float32").
		WithRegularChunkGrid(chunkShape).
		WithCodecs(codec.Metadata{Name: "bytes"})
	a, err := b.Build()
	require.NoError(t, err)
	return a, store
}

func TestArrayBuilderBuildPopulatesState(t *testing.T) {
	a, _ := newTestArray(t, []uint64{4, 4}, []uint64{2, 2})
	assert.Equal(t, []uint64{4, 4}, a.Shape())
	assert.Equal(t, 2, a.ChunkGrid().Dimensionality())
}

func TestArrayOpenReturnsNotFoundForMissingMetadata(t *testing.T) {
	store := storage.NewMemoryStore(storage.NoLocking)
	_, err := Open(context.Background(), store, "nope")
	require.Error(t, err)
	var notFound *ErrNodeNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestArrayStoreMetadataThenOpenRoundTrips(t *testing.T) {
	ctx := context.Background()
	a, store := newTestArray(t, []uint64{4, 4}, []uint64{2, 2})
	a.SetAttributes(map[string]any{"units": "K"})
	require.NoError(t, a.StoreMetadata(ctx))

	reopened, err := Open(ctx, store, "arr")
	require.NoError(t, err)
	assert.Equal(t, a.Shape(), reopened.Shape())
	assert.Equal(t, "K", reopened.Attributes()["units"])
	assert.Contains(t, reopened.Attributes(), "_zarrs_go")
}

func TestArraySetShapeRejectsWrongDimensionality(t *testing.T) {
	a, _ := newTestArray(t, []uint64{4, 4}, []uint64{2, 2})
	err := a.SetShape([]uint64{4, 4, 4})
	require.Error(t, err)
	var mismatch *ErrDimensionalityMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestParseArrayMetadataRejectsUnmodelledFieldByDefault(t *testing.T) {
	_, err := ParseArrayMetadata([]byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [4],
		"data_type": "float32",
		"chunk_grid": {"name": "regular", "configuration": {"chunk_shape": [2]}},
		"chunk_key_encoding": {"name": "default"},
		"fill_value": 0,
		"codecs": [{"name": "bytes"}],
		"unknown": "fail"
	}`))
	require.Error(t, err)
}

func TestParseArrayMetadataAcceptsUnmodelledFieldWithMustUnderstandFalse(t *testing.T) {
	meta, err := ParseArrayMetadata([]byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [4],
		"data_type": "float32",
		"chunk_grid": {"name": "regular", "configuration": {"chunk_shape": [2]}},
		"chunk_key_encoding": {"name": "default"},
		"fill_value": 0,
		"codecs": [{"name": "bytes"}],
		"unknown": {"must_understand": false}
	}`))
	require.NoError(t, err)
	assert.Contains(t, meta.AdditionalFields, "unknown")
}
