package zarr

import (
	"fmt"
	"strings"
)

// ValidatePath rejects node paths with a leading or trailing "/", per
// spec.md §6's path convention: paths are '/'-joined segments relative
// to the store root, never anchored or terminated by the separator
// itself ("" denotes the root node).
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("zarr: node path %q must not start or end with \"/\"", path)
	}
	return nil
}

// MetaKey returns the store key holding a node's "zarr.json" metadata
// document.
func MetaKey(path string) string {
	if path == "" {
		return "zarr.json"
	}
	return path + "/zarr.json"
}

// NodePrefix returns the store key prefix under which a node's children
// and chunk data live.
func NodePrefix(path string) string {
	if path == "" {
		return ""
	}
	return path + "/"
}

// DataKey returns the store key for the chunk addressed by chunkIndices
// within the node at path, per enc's encoding.
func DataKey(path string, chunkIndices []uint64, enc ChunkKeyEncoding) string {
	return NodePrefix(path) + enc.EncodeChunkKey(chunkIndices)
}
