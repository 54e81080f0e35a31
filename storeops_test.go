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

func TestStoreChunkSubsetReadModifyWriteOnlyTouchesTargetedRegion(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestArray(t, []uint64{4, 4}, []uint64{4, 4})

	initial := make([]float32, 16)
	for i := range initial {
		initial[i] = float32(i)
	}
	require.NoError(t, a.StoreChunkOpt(ctx, []uint64{0, 0}, EncodeFloat32Elements(initial), DefaultOptions()))

	patch := EncodeFloat32Elements([]float32{100, 101})
	require.NoError(t, a.StoreChunkSubset(ctx, []uint64{0, 0}, NewSubset([]uint64{1, 1}, []uint64{1, 2}), patch))

	decoded, err := a.RetrieveChunk(ctx, []uint64{0, 0})
	require.NoError(t, err)
	got, err := Float32Elements(decoded)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 100, 101, 7, 8, 9, 10, 11, 12, 13, 14, 15}, got)
}

func TestStoreChunkOfAllFillValueErasesKey(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.NoLocking)
	a, err := NewArrayBuilder(store, "arr", []uint64{4}, "float32").
		WithRegularChunkGrid([]uint64{4}).
		WithCodecs(codec.Metadata{Name: "bytes"}).
		WithFillValue(float64(0)).
		Build()
	require.NoError(t, err)

	require.NoError(t, a.StoreChunk(ctx, []uint64{0}, EncodeFloat32Elements([]float32{9, 9, 9, 9})))
	_, ok, err := store.Get(ctx, DataKey("arr", []uint64{0}, a.keyEnc))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, a.StoreChunk(ctx, []uint64{0}, EncodeFloat32Elements([]float32{0, 0, 0, 0})))
	_, ok, err = store.Get(ctx, DataKey("arr", []uint64{0}, a.keyEnc))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreChunkRejectsWrongLength(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestArray(t, []uint64{4, 4}, []uint64{2, 2})
	err := a.StoreChunk(ctx, []uint64{0, 0}, make([]byte, 4))
	require.Error(t, err)
	var mismatch *ErrLengthMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestStoreChunksRegionPacksMultipleChunks(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestArray(t, []uint64{4, 4}, []uint64{2, 2})

	vals := make([]float32, 16)
	for i := range vals {
		vals[i] = float32(i)
	}
	region := NewSubset([]uint64{0, 0}, []uint64{2, 2})
	require.NoError(t, a.StoreChunksRegion(ctx, region, EncodeFloat32Elements(vals)))

	got, err := a.RetrieveArraySubsetFloat32(ctx, NewSubset([]uint64{0, 0}, []uint64{4, 4}))
	require.NoError(t, err)
	assert.Equal(t, vals, got)
}

func TestEraseChunkRemovesKey(t *testing.T) {
	ctx := context.Background()
	a, store := newTestArray(t, []uint64{4, 4}, []uint64{2, 2})
	require.NoError(t, a.StoreChunk(ctx, []uint64{0, 0}, EncodeFloat32Elements([]float32{1, 2, 3, 4})))
	require.NoError(t, a.EraseChunk(ctx, []uint64{0, 0}))
	_, ok, err := store.Get(ctx, DataKey("arr", []uint64{0, 0}, a.keyEnc))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEraseNodeRemovesMetadataAndChunks(t *testing.T) {
	ctx := context.Background()
	a, store := newTestArray(t, []uint64{4, 4}, []uint64{2, 2})
	require.NoError(t, a.StoreMetadata(ctx))
	require.NoError(t, a.StoreChunk(ctx, []uint64{0, 0}, EncodeFloat32Elements([]float32{1, 2, 3, 4})))

	require.NoError(t, a.EraseNode(ctx))

	_, ok, err := store.Get(ctx, MetaKey("arr"))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, DataKey("arr", []uint64{0, 0}, a.keyEnc))
	require.NoError(t, err)
	assert.False(t, ok)
}
