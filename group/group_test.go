package group

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zarr-go/zarrs/storage"
)

func TestParseMetadataRejectsUnmodelledFieldByDefault(t *testing.T) {
	_, err := ParseMetadata([]byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"unknown": "fail"
	}`))
	require.Error(t, err)
}

func TestParseMetadataAcceptsUnmodelledFieldWithMustUnderstandFalse(t *testing.T) {
	meta, err := ParseMetadata([]byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"unknown": {"must_understand": false, "note": "ignore me"}
	}`))
	require.NoError(t, err)
	assert.Len(t, meta.AdditionalFields, 1)
	assert.False(t, meta.AdditionalFields["unknown"].MustUnderstand)
}

func TestParseMetadataRejectsWrongZarrFormat(t *testing.T) {
	_, err := ParseMetadata([]byte(`{"zarr_format": 2, "node_type": "group"}`))
	require.Error(t, err)
}

func TestParseMetadataRejectsWrongNodeType(t *testing.T) {
	_, err := ParseMetadata([]byte(`{"zarr_format": 3, "node_type": "array"}`))
	require.Error(t, err)
}

func TestMetadataRoundTripsAdditionalFields(t *testing.T) {
	meta, err := ParseMetadata([]byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"attributes": {"foo": "bar"},
		"unknown": {"must_understand": false}
	}`))
	require.NoError(t, err)

	data, err := meta.MarshalJSON()
	require.NoError(t, err)

	roundTripped, err := ParseMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, meta.Attributes, roundTripped.Attributes)
	assert.Contains(t, roundTripped.AdditionalFields, "unknown")
}

func TestOpenOnMissingPathReturnsDefaultMetadata(t *testing.T) {
	store := storage.NewMemoryStore(storage.NoLocking)
	g, err := Open(context.Background(), store, "somegroup")
	require.NoError(t, err)
	assert.Empty(t, g.Attributes())
}

func TestCreateThenOpenRoundTripsAttributes(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.NoLocking)

	g, err := Create(ctx, store, "mygroup")
	require.NoError(t, err)
	g.SetAttributes(map[string]any{"description": "a test group"})
	require.NoError(t, g.StoreMetadata(ctx))

	reopened, err := Open(ctx, store, "mygroup")
	require.NoError(t, err)
	assert.Equal(t, "a test group", reopened.Attributes()["description"])
}

func TestStoreMetadataInjectsProvenanceAttribute(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.NoLocking)

	g, err := Create(ctx, store, "")
	require.NoError(t, err)
	require.NoError(t, g.StoreMetadata(ctx))

	data, ok, err := store.Get(ctx, "zarr.json")
	require.NoError(t, err)
	require.True(t, ok)

	meta, err := ParseMetadata(data)
	require.NoError(t, err)
	assert.Contains(t, meta.Attributes, "_zarrs_go")
}

func TestEraseNodeRemovesPrefixedKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(storage.NoLocking)

	g, err := Create(ctx, store, "parent")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "parent/child/zarr.json", []byte(`{"zarr_format":3,"node_type":"group"}`)))

	require.NoError(t, g.EraseNode(ctx))

	_, ok, err := store.Get(ctx, "parent/zarr.json")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(ctx, "parent/child/zarr.json")
	require.NoError(t, err)
	assert.False(t, ok)
}
