package zarr

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/zarr-go/zarrs/zarrtype"
)

// Float32Elements decodes raw (little-endian float32 element bytes, the
// in-memory convention throughout this module) into a []float32,
// mirroring the teacher's dataset.go copyChunkToBatch switch on
// meta.DType case "<f4".
func Float32Elements(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("zarr: float32 buffer length %d is not a multiple of 4", len(raw))
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out, nil
}

// EncodeFloat32Elements is the inverse of Float32Elements.
func EncodeFloat32Elements(vals []float32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// Float64Elements decodes raw into a []float64.
func Float64Elements(raw []byte) ([]float64, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("zarr: float64 buffer length %d is not a multiple of 8", len(raw))
	}
	out := make([]float64, len(raw)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return out, nil
}

// EncodeFloat64Elements is the inverse of Float64Elements.
func EncodeFloat64Elements(vals []float64) []byte {
	out := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

// Float16Elements decodes raw into a []float32 via x448/float16, the
// same library this module uses for exact Float16 fill-value bit
// patterns (see zarrtype.FromFloat64).
func Float16Elements(raw []byte) ([]float32, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("zarr: float16 buffer length %d is not a multiple of 2", len(raw))
	}
	out := make([]float32, len(raw)/2)
	for i := range out {
		out[i] = float16.Frombits(binary.LittleEndian.Uint16(raw[i*2:])).Float32()
	}
	return out, nil
}

// Int32Elements decodes raw into a []int32.
func Int32Elements(raw []byte) ([]int32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("zarr: int32 buffer length %d is not a multiple of 4", len(raw))
	}
	out := make([]int32, len(raw)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out, nil
}

// EncodeInt32Elements is the inverse of Int32Elements.
func EncodeInt32Elements(vals []int32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}

// Int64Elements decodes raw into a []int64.
func Int64Elements(raw []byte) ([]int64, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("zarr: int64 buffer length %d is not a multiple of 8", len(raw))
	}
	out := make([]int64, len(raw)/8)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return out, nil
}

// EncodeInt64Elements is the inverse of Int64Elements.
func EncodeInt64Elements(vals []int64) []byte {
	out := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[i*8:], uint64(v))
	}
	return out
}

// checkElementSize rejects a typed-elements call whose caller-chosen
// element type (want) does not match an array's own data type (spec.md
// §7 "Typed-view: element-size mismatch between caller's element type
// and array data type"). Compares data type identity, not just byte
// width, since two distinct data types (e.g. int32 and float32) can
// share a size without being interchangeable.
func checkElementSize(got, want zarrtype.DataType) error {
	if !got.Equal(want) {
		// The error reports the caller's element size as Got.
		return &ErrIncompatibleElementSize{Got: want.Size(), Want: got.Size()}
	}
	return nil
}
