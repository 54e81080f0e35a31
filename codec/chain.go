package codec

import "fmt"

// Chain composes zero or more array→array codecs, exactly one
// array→bytes codec, and zero or more bytes→bytes codecs into the single
// pipeline a chunk is encoded through and decoded back out of
// (spec.md §4.5 "Codec chain").
//
// Encode order is ArrayToArray (in order) -> ArrayToBytes -> BytesToBytes
// (in order). Decode runs the mirror image: BytesToBytes (reverse order)
// -> ArrayToBytes -> ArrayToArray (reverse order).
type Chain struct {
	arrayToArray  []ArrayToArrayCodec
	arrayToBytes  ArrayToBytesCodec
	bytesToBytes  []BytesToBytesCodec
	cacheMustIdx  int // index into the decode-order stage space of computeCacheIndices, or -1
	cacheShouldIdx int
}

// NewChain builds a Chain and computes its partial-decoder cache
// insertion point.
func NewChain(arrayToArray []ArrayToArrayCodec, arrayToBytes ArrayToBytesCodec, bytesToBytes []BytesToBytesCodec) (*Chain, error) {
	if arrayToBytes == nil {
		return nil, fmt.Errorf("codec: chain requires exactly one array->bytes codec")
	}
	c := &Chain{arrayToArray: arrayToArray, arrayToBytes: arrayToBytes, bytesToBytes: bytesToBytes}
	c.cacheMustIdx, c.cacheShouldIdx = c.computeCacheIndices()
	return c, nil
}

// ChainFromMetadata constructs a Chain by dispatching each element of
// metas through the plugin registry, in the order they are listed (the
// single array->bytes entry may appear anywhere in the list; array->array
// entries preceding it and bytes->bytes entries following it, per
// spec.md §6 codec list ordering).
func ChainFromMetadata(metas []Metadata) (*Chain, error) {
	var a2a []ArrayToArrayCodec
	var a2b ArrayToBytesCodec
	var b2b []BytesToBytesCodec
	for _, m := range metas {
		v, kind, err := Create(m)
		if err != nil {
			return nil, err
		}
		switch kind {
		case KindArrayToArray:
			a2a = append(a2a, v.(ArrayToArrayCodec))
		case KindArrayToBytes:
			if a2b != nil {
				return nil, fmt.Errorf("codec: chain metadata names more than one array->bytes codec")
			}
			a2b = v.(ArrayToBytesCodec)
		case KindBytesToBytes:
			b2b = append(b2b, v.(BytesToBytesCodec))
		}
	}
	return NewChain(a2a, a2b, b2b)
}

// computeCacheIndices walks the full decode-order partial decoder chain
// (bytesToBytes reversed -> arrayToBytes -> arrayToArray reversed) and
// finds, in terms of a single index space spanning all three stages
// (len(bytesToBytes) meaning "at the arrayToBytes stage"; indices beyond
// that numbering the arrayToArray stages in decode order):
//
//   - cacheMust: the first stage whose PartialDecoderDecodesAll is true.
//     Beyond this point every partial decode call re-derives the full
//     decoded chunk, so a cache placed here turns O(n) redundant full
//     decodes into one.
//   - cacheShould: the first stage whose PartialDecoderShouldCacheInput
//     is true, i.e. the codec's own partial decoder implementation reads
//     its upstream input more efficiently when that input is fully
//     buffered.
//
// A cache is inserted at max(cacheMust, cacheShould) when either is
// present: inserting any earlier would still leave a more-expensive
// upstream codec doing full re-decodes on every partial read. Per
// spec.md §4.5, the cache type at that index is bytes before the A→B
// boundary (index <= len(bytesToBytes)) and array afterwards.
func (c *Chain) computeCacheIndices() (must, should int) {
	must, should = -1, -1
	decodeOrderB2B := reverseBytesToBytes(c.bytesToBytes)
	for i, codec := range decodeOrderB2B {
		if must == -1 && codec.PartialDecoderDecodesAll() {
			must = i
		}
		if should == -1 && codec.PartialDecoderShouldCacheInput() {
			should = i
		}
	}
	b2bLen := len(decodeOrderB2B)
	if must == -1 && c.arrayToBytes.PartialDecoderDecodesAll() {
		must = b2bLen
	}
	if should == -1 && c.arrayToBytes.PartialDecoderShouldCacheInput() {
		should = b2bLen
	}
	for j, codec := range reverseArrayToArray(c.arrayToArray) {
		idx := b2bLen + 1 + j
		if must == -1 && codec.PartialDecoderDecodesAll() {
			must = idx
		}
		if should == -1 && codec.PartialDecoderShouldCacheInput() {
			should = idx
		}
	}
	return must, should
}

func (c *Chain) cacheIndex() int {
	if c.cacheMustIdx == -1 && c.cacheShouldIdx == -1 {
		return -1
	}
	if c.cacheMustIdx > c.cacheShouldIdx {
		return c.cacheMustIdx
	}
	return c.cacheShouldIdx
}

func reverseArrayToArray(in []ArrayToArrayCodec) []ArrayToArrayCodec {
	out := make([]ArrayToArrayCodec, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func reverseBytesToBytes(in []BytesToBytesCodec) []BytesToBytesCodec {
	out := make([]BytesToBytesCodec, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// Name implements CodecTraits, returning a synthetic chain identifier.
func (c *Chain) Name() string { return "codec_chain" }

// Encode runs decoded through the full pipeline, producing the bytes a
// store key should hold.
func (c *Chain) Encode(decoded []byte, rep ChunkRepresentation, opts Options) ([]byte, error) {
	data := decoded
	curRep := rep
	for _, a2a := range c.arrayToArray {
		var err error
		data, err = a2a.Encode(data, curRep, opts)
		if err != nil {
			return nil, fmt.Errorf("codec: %s encode: %w", a2a.Name(), err)
		}
		curRep, err = a2a.ComputeEncodedSize(curRep)
		if err != nil {
			return nil, err
		}
	}
	bytesData, err := c.arrayToBytes.Encode(data, curRep, opts)
	if err != nil {
		return nil, fmt.Errorf("codec: %s encode: %w", c.arrayToBytes.Name(), err)
	}
	for _, b2b := range c.bytesToBytes {
		bytesData, err = b2b.Encode(bytesData, opts)
		if err != nil {
			return nil, fmt.Errorf("codec: %s encode: %w", b2b.Name(), err)
		}
	}
	return bytesData, nil
}

// Decode runs encoded back through the pipeline, producing the decoded
// chunk bytes.
func (c *Chain) Decode(encoded []byte, rep ChunkRepresentation, opts Options) ([]byte, error) {
	// Recompute the intermediate (post array->array, pre array->bytes)
	// representation by walking array->array stages forward, since Decode
	// must unwind bytes->bytes first using the representation that
	// matches the array->bytes boundary.
	a2bRep := rep
	a2aReps := make([]ChunkRepresentation, len(c.arrayToArray))
	for i, a2a := range c.arrayToArray {
		a2aReps[i] = a2bRep
		var err error
		a2bRep, err = a2a.ComputeEncodedSize(a2bRep)
		if err != nil {
			return nil, err
		}
	}

	data := encoded
	for _, b2b := range reverseBytesToBytes(c.bytesToBytes) {
		var err error
		data, err = b2b.Decode(data, BytesRepresentation{Kind: Unbounded}, opts)
		if err != nil {
			return nil, fmt.Errorf("codec: %s decode: %w", b2b.Name(), err)
		}
	}

	var err error
	data, err = c.arrayToBytes.Decode(data, a2bRep, opts)
	if err != nil {
		return nil, fmt.Errorf("codec: %s decode: %w", c.arrayToBytes.Name(), err)
	}

	for i := len(c.arrayToArray) - 1; i >= 0; i-- {
		a2a := c.arrayToArray[i]
		data, err = a2a.Decode(data, a2aReps[i], opts)
		if err != nil {
			return nil, fmt.Errorf("codec: %s decode: %w", a2a.Name(), err)
		}
	}
	return data, nil
}

// ComputeEncodedSize predicts the final on-disk byte size for rep.
func (c *Chain) ComputeEncodedSize(rep ChunkRepresentation) (BytesRepresentation, error) {
	curRep := rep
	for _, a2a := range c.arrayToArray {
		var err error
		curRep, err = a2a.ComputeEncodedSize(curRep)
		if err != nil {
			return BytesRepresentation{}, err
		}
	}
	bytesRep, err := c.arrayToBytes.ComputeEncodedSize(curRep)
	if err != nil {
		return BytesRepresentation{}, err
	}
	for _, b2b := range c.bytesToBytes {
		bytesRep = b2b.ComputeEncodedSize(bytesRep)
	}
	return bytesRep, nil
}

// RecommendedConcurrency returns the narrowest recommendation across all
// stages: the chain as a whole can use no more concurrency than its most
// constrained stage usefully absorbs.
func (c *Chain) RecommendedConcurrency(rep ChunkRepresentation) (RecommendedConcurrency, error) {
	out := RecommendedConcurrency{Min: 1, Max: 1 << 30}
	curRep := rep
	for _, a2a := range c.arrayToArray {
		rc, err := a2a.RecommendedConcurrency(curRep)
		if err != nil {
			return RecommendedConcurrency{}, err
		}
		out = narrow(out, rc)
		curRep, err = a2a.ComputeEncodedSize(curRep)
		if err != nil {
			return RecommendedConcurrency{}, err
		}
	}
	rc, err := c.arrayToBytes.RecommendedConcurrency(curRep)
	if err != nil {
		return RecommendedConcurrency{}, err
	}
	out = narrow(out, rc)
	for _, b2b := range c.bytesToBytes {
		rc, err := b2b.RecommendedConcurrency(curRep)
		if err != nil {
			return RecommendedConcurrency{}, err
		}
		out = narrow(out, rc)
	}
	return out, nil
}

func narrow(a, b RecommendedConcurrency) RecommendedConcurrency {
	out := a
	if b.Min > out.Min {
		out.Min = b.Min
	}
	if b.Max < out.Max {
		out.Max = b.Max
	}
	if out.Max < out.Min {
		out.Max = out.Min
	}
	return out
}

func (c *Chain) PartialDecoderShouldCacheInput() bool { return false }
func (c *Chain) PartialDecoderDecodesAll() bool       { return false }

// PartialDecoder builds the layered partial-decoder chain: input is the
// store-backed BytesPartialDecoder for the raw (fully encoded) chunk. The
// chain wraps it through each bytesToBytes stage (decode order), then the
// arrayToBytes stage, then each arrayToArray stage (decode order),
// inserting exactly one cache at the point computed by
// computeCacheIndices: a BytesPartialDecoderCache at or before the A→B
// boundary, an ArrayPartialDecoderCache after it (spec.md §4.5 "the
// cache type is bytes before the A→B boundary and array afterwards").
func (c *Chain) PartialDecoder(input BytesPartialDecoder, rep ChunkRepresentation, opts Options) (ArrayPartialDecoder, error) {
	a2bRep := rep
	a2aReps := make([]ChunkRepresentation, len(c.arrayToArray))
	for i, a2a := range c.arrayToArray {
		a2aReps[i] = a2bRep
		var err error
		a2bRep, err = a2a.ComputeEncodedSize(a2bRep)
		if err != nil {
			return nil, err
		}
	}

	cacheAt := -1
	if !opts.CachingDisabled {
		cacheAt = c.cacheIndex()
	}
	decodeOrderB2B := reverseBytesToBytes(c.bytesToBytes)
	b2bLen := len(decodeOrderB2B)

	bytesDec := input
	for i, b2b := range decodeOrderB2B {
		if i == cacheAt {
			bytesDec = NewBytesPartialDecoderCache(bytesDec)
		}
		var err error
		bytesRep := BytesRepresentation{Kind: Unbounded}
		bytesDec, err = b2b.PartialDecoder(bytesDec, bytesRep, opts)
		if err != nil {
			return nil, err
		}
	}
	if b2bLen == cacheAt {
		bytesDec = NewBytesPartialDecoderCache(bytesDec)
	}

	arrayDec, err := c.arrayToBytes.PartialDecoder(bytesDec, a2bRep, opts)
	if err != nil {
		return nil, err
	}

	curRep := a2bRep
	for j, a2a := range reverseArrayToArray(c.arrayToArray) {
		if b2bLen+1+j == cacheAt {
			arrayDec = NewArrayPartialDecoderCache(arrayDec, curRep.ChunkShape)
		}
		i := len(c.arrayToArray) - 1 - j
		arrayDec, err = a2a.PartialDecoder(arrayDec, a2aReps[i], opts)
		if err != nil {
			return nil, err
		}
		curRep = a2aReps[i]
	}
	return arrayDec, nil
}

// DecodeIntoArrayView decodes encoded directly into view, unwinding the
// bytes->bytes stages first and delegating the final array->bytes step to
// the array->bytes codec's own DecodeIntoArrayView, which is the only
// stage with enough shape information to target a sub-rectangle
// (spec.md §4.6 "Retrieve chunk into array view"). A chain with any
// array->array stages cannot decode directly into a view, since those
// stages operate on the whole decoded buffer; callers should fall back to
// Decode + view.WriteDecoded in that case.
func (c *Chain) DecodeIntoArrayView(encoded []byte, rep ChunkRepresentation, view *ArrayView, opts Options) error {
	if len(c.arrayToArray) > 0 {
		decoded, err := c.Decode(encoded, rep, opts)
		if err != nil {
			return err
		}
		return view.WriteDecoded(decoded)
	}
	data := encoded
	for _, b2b := range reverseBytesToBytes(c.bytesToBytes) {
		var err error
		data, err = b2b.Decode(data, BytesRepresentation{Kind: Unbounded}, opts)
		if err != nil {
			return err
		}
	}
	return c.arrayToBytes.DecodeIntoArrayView(data, rep, view, opts)
}
