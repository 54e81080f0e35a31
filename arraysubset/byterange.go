// Package arraysubset provides the rectangular N-D subset algebra and the
// byte-range primitives used throughout the codec and storage layers.
package arraysubset

import "fmt"

// ByteRange describes a sub-range of a byte sequence of a priori unknown
// total length. It is one of two origins: measured forward from the start,
// or backward from the end.
type ByteRange struct {
	fromEnd bool
	offset  uint64
	length  *uint64 // nil means "to the end"
}

// FromStart returns a byte range measured from the start of the sequence.
// A nil length means "read to the end".
func FromStart(offset uint64, length *uint64) ByteRange {
	return ByteRange{fromEnd: false, offset: offset, length: length}
}

// FromEnd returns a byte range measured backward from the end of the
// sequence. offset is the distance back from EOF at which the range starts
// counting forward; a nil length means "read to the end".
func FromEnd(offset uint64, length *uint64) ByteRange {
	return ByteRange{fromEnd: true, offset: offset, length: length}
}

// ErrInvalidByteRange is returned when a ByteRange cannot be resolved
// against a known total size, e.g. it requests bytes past EOF.
type ErrInvalidByteRange struct {
	Range     ByteRange
	TotalSize uint64
}

func (e *ErrInvalidByteRange) Error() string {
	return fmt.Sprintf("byte range %+v is invalid for a sequence of total size %d", e.Range, e.TotalSize)
}

// Start returns the resolved start offset of the range within a sequence of
// the given total size.
func (r ByteRange) Start(totalSize uint64) (uint64, error) {
	if !r.fromEnd {
		if r.offset > totalSize {
			return 0, &ErrInvalidByteRange{Range: r, TotalSize: totalSize}
		}
		return r.offset, nil
	}
	if r.offset > totalSize {
		return 0, &ErrInvalidByteRange{Range: r, TotalSize: totalSize}
	}
	return totalSize - r.offset, nil
}

// End returns the resolved, exclusive end offset of the range within a
// sequence of the given total size.
func (r ByteRange) End(totalSize uint64) (uint64, error) {
	start, err := r.Start(totalSize)
	if err != nil {
		return 0, err
	}
	if r.length == nil {
		if !r.fromEnd {
			return totalSize, nil
		}
		return start + r.offset, nil
	}
	end := start + *r.length
	if end > totalSize {
		return 0, &ErrInvalidByteRange{Range: r, TotalSize: totalSize}
	}
	return end, nil
}

// Length returns the resolved length in bytes of the range.
func (r ByteRange) Length(totalSize uint64) (uint64, error) {
	start, err := r.Start(totalSize)
	if err != nil {
		return 0, err
	}
	end, err := r.End(totalSize)
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// Extract returns the sub-slice of data described by r. data's length must
// be the range's total size.
func (r ByteRange) Extract(data []byte) ([]byte, error) {
	total := uint64(len(data))
	start, err := r.Start(total)
	if err != nil {
		return nil, err
	}
	end, err := r.End(total)
	if err != nil {
		return nil, err
	}
	return data[start:end], nil
}
