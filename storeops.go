package zarr

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/codec"
)

// StoreChunk writes decoded as chunkIndices's whole chunk, using a
// throughput-maximising concurrency default (spec.md §4.6 "Store whole
// chunk").
func (a *Array) StoreChunk(ctx context.Context, chunkIndices []uint64, decoded []byte) error {
	return a.StoreChunkOpt(ctx, chunkIndices, decoded, DefaultOptions())
}

// StoreChunkOpt is StoreChunk with an explicit Options.
func (a *Array) StoreChunkOpt(ctx context.Context, chunkIndices []uint64, decoded []byte, opts Options) error {
	repr, err := a.chunkRepresentation(chunkIndices)
	if err != nil {
		return err
	}
	return a.storeChunkDecoded(ctx, chunkIndices, decoded, repr, opts)
}

// storeChunkDecoded validates decoded's length against repr, erases the
// chunk's key if decoded is entirely fill value (spec.md §3 "an absent
// key means entirely fill value"), and otherwise encodes and writes it.
func (a *Array) storeChunkDecoded(ctx context.Context, chunkIndices []uint64, decoded []byte, repr codec.ChunkRepresentation, opts Options) error {
	if want := repr.Size(); uint64(len(decoded)) != want {
		return &ErrLengthMismatch{Context: "chunk bytes", Got: uint64(len(decoded)), Want: want}
	}
	key := a.chunkKey(chunkIndices)
	if repr.FillValue.EqualsAll(decoded) {
		return a.store.Erase(ctx, key)
	}
	encoded, err := a.chain.Encode(decoded, repr, opts.codecOptions())
	if err != nil {
		return fmt.Errorf("zarr: encoding chunk %v: %w", chunkIndices, err)
	}
	return a.store.Set(ctx, key, encoded)
}

// StoreChunkSubset writes data (chunk-local coordinates, subset) into
// chunkIndices's chunk via read-modify-write, using a
// throughput-maximising concurrency default.
func (a *Array) StoreChunkSubset(ctx context.Context, chunkIndices []uint64, subset Subset, data []byte) error {
	return a.StoreChunkSubsetOpt(ctx, chunkIndices, subset, data, DefaultOptions())
}

// StoreChunkSubsetOpt is StoreChunkSubset with an explicit Options. A
// subset spanning the whole chunk bypasses the read-modify-write cycle
// (spec.md §4.6 "Store chunk subset"). Otherwise it acquires the
// chunk's mutex for the full retrieve-splice-store critical section,
// releasing it on every exit path via defer.
func (a *Array) StoreChunkSubsetOpt(ctx context.Context, chunkIndices []uint64, subset Subset, data []byte, opts Options) error {
	repr, err := a.chunkRepresentation(chunkIndices)
	if err != nil {
		return err
	}
	if !subset.InBoundsOf(repr.ChunkShape) {
		return &ErrOutOfBounds{Context: "chunk subset"}
	}
	elemSize := uint64(a.dataType.Size())
	if want := subset.NumElements() * elemSize; uint64(len(data)) != want {
		return &ErrLengthMismatch{Context: "chunk subset bytes", Got: uint64(len(data)), Want: want}
	}
	if isWholeChunk(subset, repr.ChunkShape) {
		return a.storeChunkDecoded(ctx, chunkIndices, data, repr, opts)
	}

	key := a.chunkKey(chunkIndices)
	lock := a.store.MutexFor(key)
	lock.Lock()
	defer lock.Unlock()

	decoded, err := a.retrieveChunkDecoded(ctx, chunkIndices, repr, opts)
	if err != nil {
		return err
	}
	runs, err := subset.ContiguousLinearisedIndices(repr.ChunkShape)
	if err != nil {
		return err
	}
	pos := uint64(0)
	for _, run := range runs {
		n := run.Length * elemSize
		off := run.Start * elemSize
		copy(decoded[off:off+n], data[pos:pos+n])
		pos += n
	}
	return a.storeChunkDecoded(ctx, chunkIndices, decoded, repr, opts)
}

// StoreArraySubset writes data (array-level coordinates, subset),
// fanning out across intersecting chunks under the scheduler, using a
// throughput-maximising concurrency default.
func (a *Array) StoreArraySubset(ctx context.Context, subset Subset, data []byte) error {
	return a.StoreArraySubsetOpt(ctx, subset, data, DefaultOptions())
}

// StoreArraySubsetOpt is StoreArraySubset with an explicit Options
// (spec.md §4.6 "Store array subset"). For each intersecting chunk: if
// the chunk's full declared footprint exactly equals subset, the
// matching input slab is written via the whole-chunk fast path (no
// decode); otherwise the chunk-subset read-modify-write path handles
// it.
func (a *Array) StoreArraySubsetOpt(ctx context.Context, subset Subset, data []byte, opts Options) error {
	shape := a.Shape()
	if !subset.InBoundsOf(shape) {
		return &ErrOutOfBounds{Context: "array subset"}
	}
	elemSize := a.dataType.Size()
	if want := subset.NumElements() * uint64(elemSize); uint64(len(data)) != want {
		return &ErrLengthMismatch{Context: "array subset bytes", Got: uint64(len(data)), Want: want}
	}
	if subset.IsEmpty() {
		return nil
	}

	chunks, err := intersectingChunks(a.grid, shape, subset)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	repr0, err := a.chunkRepresentation(chunks[0])
	if err != nil {
		return err
	}
	rec, err := a.chain.RecommendedConcurrency(repr0)
	if err != nil {
		return err
	}
	budget := splitConcurrency(opts.ConcurrentTarget, len(chunks), rec)
	chunkOpts := Options{ConcurrentTarget: budget.codec, CachingDisabled: opts.CachingDisabled}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(budget.chunks)
	for _, chunkIndices := range chunks {
		chunkIndices := chunkIndices
		g.Go(func() error {
			origin, ok := a.grid.ChunkOrigin(chunkIndices, shape)
			if !ok {
				return &ErrChunkIndicesOutOfBounds{ChunkIndices: chunkIndices}
			}
			declShape, ok := a.grid.ChunkShape(chunkIndices, shape)
			if !ok {
				return &ErrChunkIndicesOutOfBounds{ChunkIndices: chunkIndices}
			}
			chunkInArray := arraysubset.New(origin, declShape)
			intersect := subset.Overlap(chunkInArray)
			if intersect.IsEmpty() {
				return nil
			}
			sourceLocal, err := intersect.RelativeTo(subset.Start)
			if err != nil {
				return err
			}
			slab, err := ExtractSlab(data, subset.Shape, sourceLocal, elemSize)
			if err != nil {
				return err
			}
			if chunkInArray.Equals(subset) {
				return a.StoreChunkOpt(gctx, chunkIndices, slab, chunkOpts)
			}
			chunkLocal, err := intersect.RelativeTo(chunkInArray.Start)
			if err != nil {
				return err
			}
			return a.StoreChunkSubsetOpt(gctx, chunkIndices, chunkLocal, slab, chunkOpts)
		})
	}
	return g.Wait()
}

// StoreChunksRegion writes data, a tightly packed buffer covering
// chunkRegion (a rectangle of chunk-grid coordinates) at full chunk
// boundaries, dispatching StoreChunk per chunk with a slab extracted
// from data (spec.md §4.6 "Store chunks-region"). Each axis's cumulative
// chunk offsets within the region are computed independently, since a
// chunk's declared shape along an axis depends only on that axis's own
// chunk index (true of both Regular and Rectangular grids).
func (a *Array) StoreChunksRegion(ctx context.Context, chunkRegion Subset, data []byte) error {
	return a.StoreChunksRegionOpt(ctx, chunkRegion, data, DefaultOptions())
}

// StoreChunksRegionOpt is StoreChunksRegion with an explicit Options.
func (a *Array) StoreChunksRegionOpt(ctx context.Context, chunkRegion Subset, data []byte, opts Options) error {
	shape := a.Shape()
	chunkList := chunkRegion.Indices()
	if len(chunkList) == 0 {
		return nil
	}
	ndim := chunkRegion.Dimensionality()

	axisLens := make([][]uint64, ndim)
	axisOffsets := make([][]uint64, ndim)
	totalShape := make([]uint64, ndim)
	for axis := 0; axis < ndim; axis++ {
		n := chunkRegion.Shape[axis]
		lens := make([]uint64, n)
		offs := make([]uint64, n)
		running := uint64(0)
		for k := uint64(0); k < n; k++ {
			chunkIdx := append([]uint64(nil), chunkRegion.Start...)
			chunkIdx[axis] = chunkRegion.Start[axis] + k
			declShape, ok := a.grid.ChunkShape(chunkIdx, shape)
			if !ok {
				return &ErrChunkIndicesOutOfBounds{ChunkIndices: chunkIdx}
			}
			offs[k] = running
			lens[k] = declShape[axis]
			running += declShape[axis]
		}
		axisLens[axis] = lens
		axisOffsets[axis] = offs
		totalShape[axis] = running
	}

	elemSize := a.dataType.Size()
	repr0, err := a.chunkRepresentation(chunkList[0])
	if err != nil {
		return err
	}
	rec, err := a.chain.RecommendedConcurrency(repr0)
	if err != nil {
		return err
	}
	budget := splitConcurrency(opts.ConcurrentTarget, len(chunkList), rec)
	chunkOpts := Options{ConcurrentTarget: budget.codec, CachingDisabled: opts.CachingDisabled}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(budget.chunks)
	for _, chunkIndices := range chunkList {
		chunkIndices := chunkIndices
		g.Go(func() error {
			regionStart := make([]uint64, ndim)
			regionShape := make([]uint64, ndim)
			for axis := 0; axis < ndim; axis++ {
				k := chunkIndices[axis] - chunkRegion.Start[axis]
				regionStart[axis] = axisOffsets[axis][k]
				regionShape[axis] = axisLens[axis][k]
			}
			region := arraysubset.New(regionStart, regionShape)
			slab, err := ExtractSlab(data, totalShape, region, elemSize)
			if err != nil {
				return err
			}
			return a.StoreChunkOpt(gctx, chunkIndices, slab, chunkOpts)
		})
	}
	return g.Wait()
}

// EraseChunk removes chunkIndices's stored key.
func (a *Array) EraseChunk(ctx context.Context, chunkIndices []uint64) error {
	return a.store.Erase(ctx, a.chunkKey(chunkIndices))
}

// EraseChunks removes every chunk in chunkRegion (chunk-grid
// coordinates).
func (a *Array) EraseChunks(ctx context.Context, chunkRegion Subset) error {
	for _, idx := range chunkRegion.Indices() {
		if err := a.EraseChunk(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// EraseNode removes every key under the array's node prefix, including
// its metadata and all chunks.
func (a *Array) EraseNode(ctx context.Context) error {
	return a.store.ErasePrefix(ctx, NodePrefix(a.path))
}
