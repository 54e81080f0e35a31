package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "gocloud.dev/blob/memblob"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/storage"
)

func TestBlobstoreGetSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "mem://", storage.DefaultLocking)
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "zarr.json", []byte(`{"zarr_format":3}`)))
	data, ok, err := s.Get(ctx, "zarr.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"zarr_format":3}`, string(data))
}

func TestBlobstoreGetPartialAndSize(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "mem://", storage.DefaultLocking)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "c/0/0", []byte("0123456789")))

	size, ok, err := s.Size(ctx, "c/0/0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(10), size)

	length := uint64(4)
	bufs, ok, err := s.GetPartial(ctx, "c/0/0", []arraysubset.ByteRange{arraysubset.FromStart(3, &length)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "3456", string(bufs[0]))
}

func TestBlobstoreErasePrefix(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "mem://", storage.DefaultLocking)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "a/zarr.json", []byte("1")))
	require.NoError(t, s.Set(ctx, "a/c/0/0", []byte("2")))
	require.NoError(t, s.Set(ctx, "b/zarr.json", []byte("3")))

	require.NoError(t, s.ErasePrefix(ctx, "a/"))

	keys, err := s.ListPrefix(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/zarr.json"}, keys)
}
