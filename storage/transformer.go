package storage

// TransformersEnabled gates whether an opened array's store is wrapped in
// the transformers its storage_transformers list declares. Zarr v3
// reserves the field for transformers that rewrite store keys or values
// below the codec pipeline (sharding being the canonical example), but no
// such transformer ships with this module: every declared transformer
// must be the identity, and a node naming anything else is rejected when
// its metadata is loaded, whatever this flag's value, rather than being
// silently applied or ignored.
const TransformersEnabled = true

// Transformer rewrites the store a node's chunks and metadata are read
// from and written to, beneath the codec pipeline (spec.md §6
// "storage_transformers").
type Transformer interface {
	Name() string
	Wrap(s Store) Store
}

// IdentityTransformer is the only Transformer this module ships: it
// returns its input store unchanged. Declaring "identity" in a node's
// storage_transformers list round-trips through metadata without
// altering behaviour, a placeholder for real transformers (e.g.
// sharding) that would otherwise need a breaking metadata-shape change
// to introduce later.
type IdentityTransformer struct{}

func (IdentityTransformer) Name() string    { return "identity" }
func (IdentityTransformer) Wrap(s Store) Store { return s }
