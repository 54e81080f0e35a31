package zarr

import "github.com/zarr-go/zarrs/codec"

// concurrencyBudget splits an overall concurrent_target between the
// number of chunks being processed in parallel at the engine level and
// the internal parallelism each per-chunk codec invocation is allowed
// (spec.md §5 "Concurrency & Resource Model"). Mirrors the Rust crate's
// recommended_concurrency-driven split that replaces rayon +
// rayon_iter_concurrent_limit with golang.org/x/sync/errgroup's
// SetLimit.
type concurrencyBudget struct {
	chunks int
	codec  int
}

// splitConcurrency divides target concurrency between the chunk-level
// fan-out and each chunk's internal codec concurrency, honouring rec's
// [Min, Max] recommendation for the per-chunk share.
func splitConcurrency(target int, numChunks int, rec codec.RecommendedConcurrency) concurrencyBudget {
	if target < 1 {
		target = 1
	}
	chunkConcurrency := target / max(1, rec.Min)
	if numChunks > 0 && chunkConcurrency > numChunks {
		chunkConcurrency = numChunks
	}
	if chunkConcurrency < 1 {
		chunkConcurrency = 1
	}

	remaining := target / chunkConcurrency
	if remaining < 1 {
		remaining = 1
	}
	if rec.Max > 0 && remaining > rec.Max {
		remaining = rec.Max
	}
	if remaining < rec.Min {
		remaining = rec.Min
	}
	return concurrencyBudget{chunks: chunkConcurrency, codec: remaining}
}
