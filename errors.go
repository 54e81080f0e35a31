package zarr

import "fmt"

// NodeType classifies which kind of Zarr node a path resolves to, used by
// the error taxonomy below.
type NodeType string

const (
	NodeTypeArray NodeType = "array"
	NodeTypeGroup NodeType = "group"
)

// ErrNodeNotFound is returned when an array or group's metadata key is
// absent from the backing store.
type ErrNodeNotFound struct {
	Path string
	Kind NodeType
}

func (e *ErrNodeNotFound) Error() string {
	return fmt.Sprintf("zarr: no %s metadata found at %q", e.Kind, e.Path)
}

// ErrInvalidMetadata is returned when a node's JSON metadata fails
// structural or semantic validation (spec.md §6).
type ErrInvalidMetadata struct {
	Path   string
	Reason string
}

func (e *ErrInvalidMetadata) Error() string {
	return fmt.Sprintf("zarr: invalid metadata at %q: %s", e.Path, e.Reason)
}

// ErrDimensionalityMismatch is returned when two shape-bearing values
// (array shape, chunk shape, subset, coordinate) disagree on the number
// of axes.
type ErrDimensionalityMismatch struct {
	Context string
	Got, Want int
}

func (e *ErrDimensionalityMismatch) Error() string {
	return fmt.Sprintf("zarr: %s: dimensionality %d does not match expected %d", e.Context, e.Got, e.Want)
}

// ErrOutOfBounds is returned when a requested subset or coordinate falls
// outside an array's shape.
type ErrOutOfBounds struct {
	Context string
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("zarr: %s is out of bounds", e.Context)
}

// ErrIncompatibleElementSize is returned when a caller-supplied typed
// buffer's element size does not match the array's data type.
type ErrIncompatibleElementSize struct {
	Got, Want int
}

func (e *ErrIncompatibleElementSize) Error() string {
	return fmt.Sprintf("zarr: buffer element size %d does not match data type size %d", e.Got, e.Want)
}

// ErrPluginNotRegistered is returned when metadata names a codec, chunk
// grid, chunk key encoding, or data type with no registered
// implementation (spec.md §9 "Dynamic dispatch over plugins").
type ErrPluginNotRegistered struct {
	Kind, Name string
}

func (e *ErrPluginNotRegistered) Error() string {
	return fmt.Sprintf("zarr: no %s plugin registered for %q", e.Kind, e.Name)
}

// ErrChunkIndicesOutOfBounds is returned when chunk indices do not
// address a chunk that exists in an array's grid (spec.md §7 "Indexing:
// chunk indices out of grid").
type ErrChunkIndicesOutOfBounds struct {
	ChunkIndices []uint64
}

func (e *ErrChunkIndicesOutOfBounds) Error() string {
	return fmt.Sprintf("zarr: chunk indices %v are out of the grid's bounds", e.ChunkIndices)
}

// ErrUnexpectedChunkDecodedSize is returned when a codec chain's decoded
// output length disagrees with the chunk representation it was decoded
// against (spec.md §7 "Size: decoded chunk size disagrees with
// representation").
type ErrUnexpectedChunkDecodedSize struct {
	Got, Want uint64
}

func (e *ErrUnexpectedChunkDecodedSize) Error() string {
	return fmt.Sprintf("zarr: decoded chunk is %d bytes, expected %d", e.Got, e.Want)
}

// ErrLengthMismatch is returned when a caller-supplied byte buffer's
// length disagrees with what an operation expects (spec.md §7 "Size:
// input byte length disagrees with expected length").
type ErrLengthMismatch struct {
	Context    string
	Got, Want uint64
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("zarr: %s has %d bytes, expected %d", e.Context, e.Got, e.Want)
}

// ErrUnsupportedAdditionalField is returned when metadata carries a
// top-level field this module does not model and that is not tagged
// `"must_understand": false` (spec.md §6, Scenario M1).
type ErrUnsupportedAdditionalField struct {
	Key string
}

func (e *ErrUnsupportedAdditionalField) Error() string {
	return fmt.Sprintf("zarr: unsupported additional metadata field %q", e.Key)
}
