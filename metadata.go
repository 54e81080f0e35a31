package zarr

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/zarr-go/zarrs/chunkgrid"
	"github.com/zarr-go/zarrs/codec"
	"github.com/zarr-go/zarrs/zarrtype"
)

// ArrayMetadata is the Zarr v3 array metadata document (the "zarr.json"
// content for an array node), grounded on the teacher's v2-era Metadata
// struct (zarr/metadata.go) and generalised to v3's richer, plugin-based
// shape (spec.md §6).
type ArrayMetadata struct {
	ZarrFormat          int              `json:"zarr_format"`
	NodeType            string           `json:"node_type"`
	Shape               []uint64         `json:"shape"`
	DataType            string           `json:"data_type"`
	ChunkGrid           codec.Metadata   `json:"chunk_grid"`
	ChunkKeyEnc         codec.Metadata   `json:"chunk_key_encoding"`
	FillValue           json.RawMessage  `json:"fill_value"`
	Codecs              []codec.Metadata `json:"codecs"`
	Attributes          map[string]any   `json:"attributes,omitempty"`
	DimensionName       []*string        `json:"dimension_names,omitempty"`
	StorageTransformers []codec.Metadata `json:"storage_transformers,omitempty"`

	// AdditionalFields carries any top-level JSON keys this struct does
	// not model, keyed by field name (spec.md §6, Scenario M1). Populated
	// by ParseArrayMetadata and re-emitted by MarshalJSON; zero value for
	// metadata built programmatically via ArrayBuilder.
	AdditionalFields AdditionalFields `json:"-"`
}

// ParseArrayMetadata decodes a "zarr.json" document for an array node,
// splitting recognised top-level fields from additional ones and
// validating that none of the latter demand must_understand (spec.md §6).
func ParseArrayMetadata(data []byte) (*ArrayMetadata, error) {
	var m ArrayMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("zarr: decoding array metadata: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("zarr: decoding array metadata: %w", err)
	}
	fields, err := decodeAdditionalFields(raw, knownArrayFields)
	if err != nil {
		return nil, err
	}
	m.AdditionalFields = fields
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// MarshalJSON emits ArrayMetadata's modelled fields plus any
// AdditionalFields, merged back into the same top-level JSON object they
// were read from.
func (m ArrayMetadata) MarshalJSON() ([]byte, error) {
	type alias ArrayMetadata
	modelled, err := json.Marshal(alias(m))
	if err != nil {
		return nil, err
	}
	if len(m.AdditionalFields) == 0 {
		return modelled, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(modelled, &obj); err != nil {
		return nil, err
	}
	mergeAdditionalFields(obj, m.AdditionalFields)
	return json.Marshal(obj)
}

// Validate checks the structural invariants spec.md §6 requires of array
// metadata: zarr_format 3, node_type "array", shape/dimension_names
// dimensionality agreement, and a resolvable data type.
func (m *ArrayMetadata) Validate() error {
	if m.ZarrFormat != 3 {
		return &ErrInvalidMetadata{Reason: fmt.Sprintf("zarr_format %d is not supported, expected 3", m.ZarrFormat)}
	}
	if m.NodeType != "array" {
		return &ErrInvalidMetadata{Reason: fmt.Sprintf("node_type %q is not \"array\"", m.NodeType)}
	}
	if m.DimensionName != nil && len(m.DimensionName) != len(m.Shape) {
		return &ErrInvalidMetadata{Reason: fmt.Sprintf("dimension_names has %d entries, shape has %d axes", len(m.DimensionName), len(m.Shape))}
	}
	if _, err := zarrtype.Parse(m.DataType); err != nil {
		return &ErrInvalidMetadata{Reason: err.Error()}
	}
	if len(m.Codecs) == 0 {
		return &ErrInvalidMetadata{Reason: "codecs list must name at least the array->bytes codec"}
	}
	if err := ValidateAdditionalFields(m.AdditionalFields); err != nil {
		return &ErrInvalidMetadata{Reason: err.Error()}
	}
	return nil
}

// DataTypeParsed resolves DataType to its zarrtype.DataType.
func (m *ArrayMetadata) DataTypeParsed() (zarrtype.DataType, error) {
	return zarrtype.Parse(m.DataType)
}

// ChunkGridParsed dispatches ChunkGrid's metadata to a chunkgrid.Grid.
func (m *ArrayMetadata) ChunkGridParsed() (chunkgrid.Grid, error) {
	return chunkgrid.FromMetadata(chunkgrid.Metadata{Name: m.ChunkGrid.Name, Configuration: m.ChunkGrid.Configuration})
}

// ChunkKeyEncodingParsed dispatches ChunkKeyEnc's metadata to a
// ChunkKeyEncoding.
func (m *ArrayMetadata) ChunkKeyEncodingParsed() (ChunkKeyEncoding, error) {
	var cfg struct {
		Separator string `json:"separator"`
	}
	if err := m.ChunkKeyEnc.DecodeConfiguration(&cfg); err != nil {
		return nil, err
	}
	switch m.ChunkKeyEnc.Name {
	case "default", "":
		return NewDefaultChunkKeyEncoding(cfg.Separator), nil
	case "v2":
		return NewV2ChunkKeyEncoding(cfg.Separator), nil
	default:
		return nil, &ErrPluginNotRegistered{Kind: "chunk key encoding", Name: m.ChunkKeyEnc.Name}
	}
}

// FillValueParsed resolves FillValue against dt, writing multi-byte
// numeric values in the given byte order. Array construction passes
// binary.LittleEndian, the module's in-memory element layout.
func (m *ArrayMetadata) FillValueParsed(dt zarrtype.DataType, order binary.ByteOrder) (zarrtype.FillValue, error) {
	var v interface{}
	if err := json.Unmarshal(m.FillValue, &v); err != nil {
		return zarrtype.FillValue{}, fmt.Errorf("zarr: parsing fill_value: %w", err)
	}
	return zarrtype.ParseJSON(dt, v, order)
}
