package zarr

import (
	"runtime"

	"github.com/zarr-go/zarrs/codec"
)

// Options carries the per-call scheduler budget for array engine
// operations that fan out across chunks (spec.md §5 "Concurrency &
// Resource Model"). ConcurrentTarget is split between chunk-level
// fan-out and each chunk's own codec concurrency by splitConcurrency,
// honouring the codec chain's RecommendedConcurrency.
type Options struct {
	// ConcurrentTarget is the overall degree of parallelism an operation
	// may use, split between concurrent chunks and per-chunk codec work.
	ConcurrentTarget int
	// CachingDisabled disables codec chain partial-decoder caching for
	// this call.
	CachingDisabled bool
}

// DefaultOptions returns an Options that maximises throughput, using
// every available core as the concurrency target (spec.md §4.6
// "non-opt variants use a default that maximises throughput").
func DefaultOptions() Options {
	return Options{ConcurrentTarget: runtime.GOMAXPROCS(0)}
}

func (o Options) codecOptions() codec.Options {
	return codec.Options{ConcurrentTarget: o.ConcurrentTarget, CachingDisabled: o.CachingDisabled}
}
