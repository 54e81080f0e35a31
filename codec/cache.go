package codec

import "github.com/zarr-go/zarrs/arraysubset"

// BytesPartialDecoderCache wraps an upstream BytesPartialDecoder, reading
// its entire input exactly once (on the first PartialDecode call) and
// serving every subsequent request by slicing the cached buffer. Inserted
// into a Chain at the point computed by Chain.computeCacheIndices, ahead
// of a downstream stage that would otherwise re-read its upstream input
// once per requested range (spec.md §4.5).
type BytesPartialDecoderCache struct {
	upstream BytesPartialDecoder
	cached   []byte
	present  bool
	done     bool
}

// NewBytesPartialDecoderCache wraps upstream.
func NewBytesPartialDecoderCache(upstream BytesPartialDecoder) *BytesPartialDecoderCache {
	return &BytesPartialDecoderCache{upstream: upstream}
}

func (c *BytesPartialDecoderCache) fill(opts Options) error {
	if c.done {
		return nil
	}
	full := arraysubset.FromStart(0, nil)
	bufs, ok, err := c.upstream.PartialDecode([]arraysubset.ByteRange{full}, opts)
	if err != nil {
		return err
	}
	c.done = true
	c.present = ok
	if ok && len(bufs) == 1 {
		c.cached = bufs[0]
	}
	return nil
}

// PartialDecode implements BytesPartialDecoder.
func (c *BytesPartialDecoderCache) PartialDecode(ranges []arraysubset.ByteRange, opts Options) ([][]byte, bool, error) {
	if err := c.fill(opts); err != nil {
		return nil, false, err
	}
	if !c.present {
		return nil, false, nil
	}
	out := make([][]byte, len(ranges))
	for i, r := range ranges {
		buf, err := r.Extract(c.cached)
		if err != nil {
			return nil, false, err
		}
		out[i] = buf
	}
	return out, true, nil
}

// ArrayPartialDecoderCache wraps an upstream ArrayPartialDecoder,
// decoding its entire chunk exactly once and serving every subsequent
// subset request by slicing the cached decoded buffer via
// ContiguousLinearisedIndices. Used in front of an array->array codec
// whose PartialDecoderDecodesAll is true, since such a codec redecodes
// its full input on every PartialDecode call regardless of the requested
// subset.
type ArrayPartialDecoderCache struct {
	upstream   ArrayPartialDecoder
	chunkShape []uint64
	cached     []byte
	present    bool
	done       bool
}

// NewArrayPartialDecoderCache wraps upstream, which decodes chunks of
// shape chunkShape.
func NewArrayPartialDecoderCache(upstream ArrayPartialDecoder, chunkShape []uint64) *ArrayPartialDecoderCache {
	return &ArrayPartialDecoderCache{upstream: upstream, chunkShape: chunkShape}
}

func (c *ArrayPartialDecoderCache) fill(opts Options) error {
	if c.done {
		return nil
	}
	full := arraysubset.New(make([]uint64, len(c.chunkShape)), c.chunkShape)
	bufs, ok, err := c.upstream.PartialDecode([]arraysubset.Subset{full}, opts)
	if err != nil {
		return err
	}
	c.done = true
	c.present = ok
	if ok && len(bufs) == 1 {
		c.cached = bufs[0]
	}
	return nil
}

// ElementSize implements ArrayPartialDecoder.
func (c *ArrayPartialDecoderCache) ElementSize() int { return c.upstream.ElementSize() }

// PartialDecode implements ArrayPartialDecoder.
func (c *ArrayPartialDecoderCache) PartialDecode(subsets []arraysubset.Subset, opts Options) ([][]byte, bool, error) {
	if err := c.fill(opts); err != nil {
		return nil, false, err
	}
	if !c.present {
		return nil, false, nil
	}
	elemSize := c.ElementSize()
	out := make([][]byte, len(subsets))
	for i, s := range subsets {
		runs, err := s.ContiguousLinearisedIndices(c.chunkShape)
		if err != nil {
			return nil, false, err
		}
		buf := make([]byte, 0, int(s.NumElements())*elemSize)
		for _, run := range runs {
			start := int(run.Start) * elemSize
			n := int(run.Length) * elemSize
			buf = append(buf, c.cached[start:start+n]...)
		}
		out[i] = buf
	}
	return out, true, nil
}
