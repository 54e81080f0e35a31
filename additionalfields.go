package zarr

import "encoding/json"

// AdditionalFields holds the top-level metadata keys a node's JSON
// document carries beyond the ones this module models directly (spec.md
// §6). Zarr v3 requires every unrecognised top-level field to carry a
// "must_understand" member; a reader that does not implement the field
// may ignore it only when that member is false.
type AdditionalFields map[string]AdditionalField

// AdditionalField is one entry of AdditionalFields: the field's raw JSON
// value plus whatever "must_understand" it declared.
type AdditionalField struct {
	Value          json.RawMessage
	MustUnderstand bool
}

// ValidateAdditionalFields rejects any field whose MustUnderstand is
// true, per spec.md §6 (Scenario M1): a reader that does not recognise
// the field cannot honour a demand that it be understood.
func ValidateAdditionalFields(fields AdditionalFields) error {
	for key, f := range fields {
		if f.MustUnderstand {
			return &ErrUnsupportedAdditionalField{Key: key}
		}
	}
	return nil
}

// knownArrayFields names ArrayMetadata's modelled top-level JSON keys,
// used by ParseArrayMetadata to separate known fields from additional
// ones.
var knownArrayFields = map[string]bool{
	"zarr_format":          true,
	"node_type":            true,
	"shape":                true,
	"data_type":            true,
	"chunk_grid":           true,
	"chunk_key_encoding":   true,
	"fill_value":           true,
	"codecs":               true,
	"attributes":           true,
	"dimension_names":      true,
	"storage_transformers": true,
}

func decodeAdditionalFields(raw map[string]json.RawMessage, known map[string]bool) (AdditionalFields, error) {
	out := make(AdditionalFields)
	for key, v := range raw {
		if known[key] {
			continue
		}
		var probe struct {
			MustUnderstand *bool `json:"must_understand"`
		}
		if err := json.Unmarshal(v, &probe); err != nil {
			return nil, &ErrInvalidMetadata{Reason: "additional field " + key + " is not a JSON object: " + err.Error()}
		}
		mustUnderstand := true
		if probe.MustUnderstand != nil {
			mustUnderstand = *probe.MustUnderstand
		}
		out[key] = AdditionalField{Value: v, MustUnderstand: mustUnderstand}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func mergeAdditionalFields(obj map[string]json.RawMessage, fields AdditionalFields) {
	for key, f := range fields {
		obj[key] = f.Value
	}
}
