package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/arraysubset"
)

func TestMemoryStoreGetSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultLocking)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "a/zarr.json", []byte(`{"zarr_format":3}`)))
	data, ok, err := s.Get(ctx, "a/zarr.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"zarr_format":3}`, string(data))
}

func TestMemoryStoreGetPartial(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultLocking)
	require.NoError(t, s.Set(ctx, "k", []byte("0123456789")))

	length := uint64(3)
	bufs, ok, err := s.GetPartial(ctx, "k", []arraysubset.ByteRange{arraysubset.FromStart(2, &length)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "234", string(bufs[0]))
}

func TestMemoryStoreSetPartialGrowsValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultLocking)
	require.NoError(t, s.SetPartial(ctx, "k", 4, []byte("xyz")))

	data, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{0, 0, 0, 0, 'x', 'y', 'z'}, data)
}

func TestMemoryStoreErasePrefixAndListDir(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(DefaultLocking)
	require.NoError(t, s.Set(ctx, "a/zarr.json", []byte("1")))
	require.NoError(t, s.Set(ctx, "a/c/0/0", []byte("2")))
	require.NoError(t, s.Set(ctx, "a/c/0/1", []byte("3")))
	require.NoError(t, s.Set(ctx, "b/zarr.json", []byte("4")))

	children, err := s.ListDir(ctx, "a/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a/zarr.json", "a/c/"}, children)

	require.NoError(t, s.ErasePrefix(ctx, "a/c/"))
	keys, err := s.ListPrefix(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/zarr.json"}, keys)
}

func TestMemoryStoreNoLockingReturnsNoopLock(t *testing.T) {
	s := NewMemoryStore(NoLocking)
	lock := s.MutexFor("k")
	lock.Lock()
	lock.Unlock() // must not deadlock with DefaultLocking's real mutex
}
