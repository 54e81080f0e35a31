package group

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	zarr "github.com/zarr-go/zarrs"
	"github.com/zarr-go/zarrs/storage"
)

// provenanceAttribute mirrors the root package's array provenance
// marker for group nodes (spec.md §9 "Global provenance attribute").
const provenanceAttribute = "_zarrs_go"

// Group is the persistent identity (store, path) of a Zarr group node.
// Grounded on the root package's Array: the same Open/fromMetadata/
// StoreMetadata shape, reduced to a group's narrower metadata document.
type Group struct {
	store storage.Store
	path  string

	mu               sync.RWMutex
	attributes       map[string]any
	additionalFields zarr.AdditionalFields

	// ProvenanceAttribute controls whether StoreMetadata injects
	// provenanceAttribute into attributes. Default true.
	ProvenanceAttribute bool
}

// Open loads a group's metadata from store at path. A path with no
// stored metadata is not an error for groups, unlike arrays: it reads
// as DefaultMetadata (spec.md §6 "Default when reading a path with no
// metadata").
func Open(ctx context.Context, store storage.Store, path string) (*Group, error) {
	if err := zarr.ValidatePath(path); err != nil {
		return nil, err
	}
	data, ok, err := store.Get(ctx, zarr.MetaKey(path))
	if err != nil {
		return nil, fmt.Errorf("group: opening %q: %w", path, err)
	}
	if !ok {
		return fromMetadata(store, path, DefaultMetadata()), nil
	}
	meta, err := ParseMetadata(data)
	if err != nil {
		return nil, fmt.Errorf("group: opening %q: %w", path, err)
	}
	return fromMetadata(store, path, meta), nil
}

// Create makes a new group at path with empty attributes and
// immediately persists its metadata.
func Create(ctx context.Context, store storage.Store, path string) (*Group, error) {
	if err := zarr.ValidatePath(path); err != nil {
		return nil, err
	}
	g := fromMetadata(store, path, DefaultMetadata())
	if err := g.StoreMetadata(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

func fromMetadata(store storage.Store, path string, meta *Metadata) *Group {
	attrs := make(map[string]any, len(meta.Attributes))
	for k, v := range meta.Attributes {
		attrs[k] = v
	}
	return &Group{
		store:               store,
		path:                path,
		attributes:          attrs,
		additionalFields:    meta.AdditionalFields,
		ProvenanceAttribute: true,
	}
}

// ToMetadata renders g's current state as a Metadata document.
func (g *Group) ToMetadata() *Metadata {
	g.mu.RLock()
	defer g.mu.RUnlock()

	attrs := make(map[string]any, len(g.attributes)+1)
	for k, v := range g.attributes {
		attrs[k] = v
	}
	if g.ProvenanceAttribute {
		attrs[provenanceAttribute] = "github.com/zarr-go/zarrs"
	}
	return &Metadata{
		ZarrFormat:       3,
		NodeType:         "group",
		Attributes:       attrs,
		AdditionalFields: g.additionalFields,
	}
}

// StoreMetadata serializes g's current metadata and writes it to the
// store under its path's zarr.json key.
func (g *Group) StoreMetadata(ctx context.Context) error {
	meta := g.ToMetadata()
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("group: marshalling metadata for %q: %w", g.path, err)
	}
	if err := g.store.Set(ctx, zarr.MetaKey(g.path), data); err != nil {
		return fmt.Errorf("group: storing metadata for %q: %w", g.path, err)
	}
	return nil
}

// Path returns the group's node path.
func (g *Group) Path() string { return g.path }

// Attributes returns a copy of the group's current attributes.
func (g *Group) Attributes() map[string]any {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]any, len(g.attributes))
	for k, v := range g.attributes {
		out[k] = v
	}
	return out
}

// SetAttributes replaces the group's attributes wholesale.
func (g *Group) SetAttributes(attrs map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	g.attributes = out
}

// EraseNode removes every key under the group's node prefix, including
// its metadata and everything nested beneath it.
func (g *Group) EraseNode(ctx context.Context) error {
	return g.store.ErasePrefix(ctx, zarr.NodePrefix(g.path))
}
