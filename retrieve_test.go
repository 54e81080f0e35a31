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

func TestRetrieveChunkOfUnwrittenChunkReturnsFillValue(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.NoLocking)
	a, err := NewArrayBuilder(store, "arr", []uint64{4, 4}, "float32").
		WithRegularChunkGrid([]uint64{2, 2}).
		WithCodecs(codec.Metadata{Name: "bytes"}).
		WithFillValue(float64(7)).
		Build()
	require.NoError(t, err)

	decoded, err := a.RetrieveChunk(ctx, []uint64{0, 0})
	require.NoError(t, err)
	vals, err := Float32Elements(decoded)
	require.NoError(t, err)
	for _, v := range vals {
		assert.Equal(t, float32(7), v)
	}
}

func TestStoreThenRetrieveChunkRoundTrips(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.NoLocking)
	a, err := NewArrayBuilder(store, "arr", []uint64{4, 4}, "float32").
		WithRegularChunkGrid([]uint64{2, 2}).
		WithCodecs(codec.Metadata{Name: "bytes"}).
		Build()
	require.NoError(t, err)

	data := EncodeFloat32Elements([]float32{1, 2, 3, 4})
	require.NoError(t, a.StoreChunk(ctx, []uint64{0, 0}, data))

	got, err := a.RetrieveChunk(ctx, []uint64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestStoreArraySubsetThenRetrieveArraySubsetRoundTrips(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.NoLocking)
	a, err := NewArrayBuilder(store, "arr", []uint64{4, 4}, "float32").
		WithRegularChunkGrid([]uint64{2, 2}).
		WithCodecs(codec.Metadata{Name: "bytes"}).
		Build()
	require.NoError(t, err)

	vals := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	require.NoError(t, a.StoreArraySubsetFloat32(ctx, NewSubset([]uint64{0, 0}, []uint64{4, 4}), vals))

	sub := NewSubset([]uint64{1, 1}, []uint64{2, 2})
	got, err := a.RetrieveArraySubsetFloat32(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 7, 10, 11}, got)
}

func TestRetrieveChunkSubsetReturnsChunkLocalRegion(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.NoLocking)
	a, err := NewArrayBuilder(store, "arr", []uint64{4, 4}, "float32").
		WithRegularChunkGrid([]uint64{4, 4}).
		WithCodecs(codec.Metadata{Name: "bytes"}).
		Build()
	require.NoError(t, err)

	vals := make([]float32, 16)
	for i := range vals {
		vals[i] = float32(i)
	}
	require.NoError(t, a.StoreChunkOpt(ctx, []uint64{0, 0}, EncodeFloat32Elements(vals), DefaultOptions()))

	sub := NewSubset([]uint64{1, 1}, []uint64{2, 2})
	raw, err := a.RetrieveChunkSubset(ctx, []uint64{0, 0}, sub)
	require.NoError(t, err)
	got, err := Float32Elements(raw)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 6, 9, 10}, got)
}

func TestRetrieveArraySubsetOutOfBoundsErrors(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestArray(t, []uint64{4, 4}, []uint64{2, 2})
	_, err := a.RetrieveArraySubset(ctx, NewSubset([]uint64{0, 0}, []uint64{8, 8}))
	require.Error(t, err)
	var oob *ErrOutOfBounds
	assert.ErrorAs(t, err, &oob)
}
