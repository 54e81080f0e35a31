// Package group implements Zarr v3 group metadata and the Group node
// type: a named tree node carrying only attributes, with no children of
// its own modelled here (spec.md §1 "Group metadata and the node
// hierarchy beyond what the array needs" is an explicit Non-goal;
// path validation and the metadata document shape are what remains).
package group

import (
	"encoding/json"
	"fmt"

	zarr "github.com/zarr-go/zarrs"
)

// Metadata is the Zarr v3 group metadata document (the "zarr.json"
// content for a group node).
type Metadata struct {
	ZarrFormat       int                  `json:"zarr_format"`
	NodeType         string               `json:"node_type"`
	Attributes       map[string]any       `json:"attributes,omitempty"`
	AdditionalFields zarr.AdditionalFields `json:"-"`
}

var knownGroupFields = map[string]bool{
	"zarr_format": true,
	"node_type":   true,
	"attributes":  true,
}

// DefaultMetadata is what a path with no stored metadata is treated as
// reading (spec.md §6 "Default when reading a path with no metadata").
func DefaultMetadata() *Metadata {
	return &Metadata{ZarrFormat: 3, NodeType: "group"}
}

// ParseMetadata decodes a "zarr.json" document for a group node,
// splitting recognised top-level fields from additional ones and
// validating that none of the latter demand must_understand
// (spec.md §6, Scenario M1).
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("group: decoding metadata: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("group: decoding metadata: %w", err)
	}
	fields, err := decodeAdditionalFields(raw)
	if err != nil {
		return nil, err
	}
	m.AdditionalFields = fields
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeAdditionalFields(raw map[string]json.RawMessage) (zarr.AdditionalFields, error) {
	out := make(zarr.AdditionalFields)
	for key, v := range raw {
		if knownGroupFields[key] {
			continue
		}
		var probe struct {
			MustUnderstand *bool `json:"must_understand"`
		}
		if err := json.Unmarshal(v, &probe); err != nil {
			return nil, &zarr.ErrInvalidMetadata{Reason: "additional field " + key + " is not a JSON object: " + err.Error()}
		}
		mustUnderstand := true
		if probe.MustUnderstand != nil {
			mustUnderstand = *probe.MustUnderstand
		}
		out[key] = zarr.AdditionalField{Value: v, MustUnderstand: mustUnderstand}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Validate checks Metadata's structural invariants.
func (m *Metadata) Validate() error {
	if m.ZarrFormat != 3 {
		return &zarr.ErrInvalidMetadata{Reason: fmt.Sprintf("zarr_format %d is not supported, expected 3", m.ZarrFormat)}
	}
	if m.NodeType != "group" {
		return &zarr.ErrInvalidMetadata{Reason: fmt.Sprintf("node_type %q is not \"group\"", m.NodeType)}
	}
	if err := zarr.ValidateAdditionalFields(m.AdditionalFields); err != nil {
		return &zarr.ErrInvalidMetadata{Reason: err.Error()}
	}
	return nil
}

// MarshalJSON emits Metadata's modelled fields plus any
// AdditionalFields, merged back into the same top-level JSON object
// they were read from.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type alias Metadata
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
	for key, f := range m.AdditionalFields {
		obj[key] = f.Value
	}
	return json.Marshal(obj)
}
