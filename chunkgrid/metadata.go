package chunkgrid

import (
	"encoding/json"
	"fmt"
)

// Metadata is the generic {name, configuration} pair chunk grid plugins
// are dispatched from (spec.md §6, mirroring codec.Metadata for the
// codec plugin surface — kept as its own type here so this package does
// not depend on the codec package).
type Metadata struct {
	Name          string          `json:"name"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// ErrUnknownChunkGrid is returned by FromMetadata for an unrecognised
// chunk grid name.
type ErrUnknownChunkGrid struct{ Name string }

func (e *ErrUnknownChunkGrid) Error() string {
	return fmt.Sprintf("chunkgrid: unknown chunk grid %q", e.Name)
}

// FromMetadata dispatches m to a Grid, per spec.md §6's two built-in
// variants: "regular" (configuration: {chunk_shape: [...]}) and
// "rectangular" (configuration: {chunk_shapes: [[axis0 sizes...], ...]}).
func FromMetadata(m Metadata) (Grid, error) {
	switch m.Name {
	case "regular":
		var cfg struct {
			ChunkShape []uint64 `json:"chunk_shape"`
		}
		if err := json.Unmarshal(m.Configuration, &cfg); err != nil {
			return nil, fmt.Errorf("chunkgrid: decoding regular configuration: %w", err)
		}
		return NewRegular(cfg.ChunkShape)
	case "rectangular":
		var cfg struct {
			ChunkShapes [][]uint64 `json:"chunk_shapes"`
		}
		if err := json.Unmarshal(m.Configuration, &cfg); err != nil {
			return nil, fmt.Errorf("chunkgrid: decoding rectangular configuration: %w", err)
		}
		dims := make([]RectangularDimension, len(cfg.ChunkShapes))
		for i, sizes := range cfg.ChunkShapes {
			if len(sizes) == 1 {
				d, err := FixedDimension(sizes[0])
				if err != nil {
					return nil, err
				}
				dims[i] = d
				continue
			}
			d, err := VaryingDimension(sizes)
			if err != nil {
				return nil, err
			}
			dims[i] = d
		}
		return NewRectangular(dims), nil
	default:
		return nil, &ErrUnknownChunkGrid{Name: m.Name}
	}
}
