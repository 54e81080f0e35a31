package zarrtype

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// FillValue is the byte pattern returned for any array position backed by
// no stored chunk. It is sized to exactly one element of its data type and
// is compared against raw element spans byte-for-byte, never by decoding,
// so that signaling-NaN bit patterns round-trip exactly (spec.md §6).
type FillValue struct {
	raw []byte
}

// Bytes returns the fill value's raw element-sized byte pattern.
func (f FillValue) Bytes() []byte { return f.raw }

// Equals reports whether other (expected to be one element's worth of
// bytes) is byte-identical to f.
func (f FillValue) Equals(other []byte) bool { return bytes.Equal(f.raw, other) }

// EqualsAll reports whether data consists entirely of repetitions of f's
// pattern — used to decide whether a chunk being stored is "entirely fill
// value" and should instead erase the underlying key (spec.md §4.6 "Store
// whole chunk").
func (f FillValue) EqualsAll(data []byte) bool {
	n := len(f.raw)
	if n == 0 || len(data)%n != 0 {
		return len(data) == 0
	}
	for off := 0; off < len(data); off += n {
		if !bytes.Equal(f.raw, data[off:off+n]) {
			return false
		}
	}
	return true
}

// ToJSON renders f as a Zarr v3 fill_value document: a "0x"-prefixed hex
// string of its exact bytes. This is always lossless (ParseJSON accepts
// the hex form for every data type), unlike re-deriving a numeric or
// token form, which would need to special-case NaN payloads and
// endianness on the way back out.
func (f FillValue) ToJSON() json.RawMessage {
	return json.RawMessage(`"0x` + hex.EncodeToString(f.raw) + `"`)
}

// Repeat returns n back-to-back copies of f's pattern.
func (f FillValue) Repeat(n int) []byte {
	out := make([]byte, 0, n*len(f.raw))
	for i := 0; i < n; i++ {
		out = append(out, f.raw...)
	}
	return out
}

// FromBytes wraps raw as a FillValue, validating that its length matches
// dt's element size.
func FromBytes(dt DataType, raw []byte) (FillValue, error) {
	if len(raw) != dt.Size() {
		return FillValue{}, fmt.Errorf("zarrtype: fill value has %d bytes, expected %d for %s", len(raw), dt.Size(), dt)
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return FillValue{raw: cp}, nil
}

// FromBool builds a FillValue for DataType Bool.
func FromBool(b bool) FillValue {
	if b {
		return FillValue{raw: []byte{1}}
	}
	return FillValue{raw: []byte{0}}
}

// FromInt64 builds a FillValue for a signed integer data type.
func FromInt64(dt DataType, v int64, order binary.ByteOrder) (FillValue, error) {
	raw := make([]byte, dt.Size())
	switch dt {
	case Int8:
		raw[0] = byte(v)
	case Int16:
		order.PutUint16(raw, uint16(v))
	case Int32:
		order.PutUint32(raw, uint32(v))
	case Int64:
		order.PutUint64(raw, uint64(v))
	default:
		return FillValue{}, fmt.Errorf("zarrtype: %s is not a signed integer type", dt)
	}
	return FillValue{raw: raw}, nil
}

// FromUint64 builds a FillValue for an unsigned integer data type.
func FromUint64(dt DataType, v uint64, order binary.ByteOrder) (FillValue, error) {
	raw := make([]byte, dt.Size())
	switch dt {
	case Uint8:
		raw[0] = byte(v)
	case Uint16:
		order.PutUint16(raw, uint16(v))
	case Uint32:
		order.PutUint32(raw, uint32(v))
	case Uint64:
		order.PutUint64(raw, v)
	default:
		return FillValue{}, fmt.Errorf("zarrtype: %s is not an unsigned integer type", dt)
	}
	return FillValue{raw: raw}, nil
}

// FromFloat64 builds a FillValue for a floating point data type, including
// Float16 (via github.com/x448/float16, which preserves exact bit
// patterns rather than rounding through the narrower math).
func FromFloat64(dt DataType, v float64, order binary.ByteOrder) (FillValue, error) {
	raw := make([]byte, dt.Size())
	switch dt {
	case Float16:
		order.PutUint16(raw, float16.Fromfloat32(float32(v)).Bits())
	case Float32:
		order.PutUint32(raw, math.Float32bits(float32(v)))
	case Float64:
		order.PutUint64(raw, math.Float64bits(v))
	default:
		return FillValue{}, fmt.Errorf("zarrtype: %s is not a floating point type", dt)
	}
	return FillValue{raw: raw}, nil
}

// FromFloat16Bits builds a Float16 FillValue from an exact bit pattern,
// bypassing any float32/64 rounding — the only way to faithfully represent
// a signaling NaN payload (spec.md §6).
func FromFloat16Bits(bits uint16, order binary.ByteOrder) FillValue {
	raw := make([]byte, 2)
	order.PutUint16(raw, bits)
	return FillValue{raw: raw}
}

// FromFloat32Bits builds a Float32 FillValue from an exact bit pattern.
func FromFloat32Bits(bits uint32, order binary.ByteOrder) FillValue {
	raw := make([]byte, 4)
	order.PutUint32(raw, bits)
	return FillValue{raw: raw}
}

// FromFloat64Bits builds a Float64 FillValue from an exact bit pattern.
func FromFloat64Bits(bits uint64, order binary.ByteOrder) FillValue {
	raw := make([]byte, 8)
	order.PutUint64(raw, bits)
	return FillValue{raw: raw}
}

// FromComplex128 builds a FillValue for Complex64/Complex128, encoding
// the real part followed by the imaginary part.
func FromComplex128(dt DataType, v complex128, order binary.ByteOrder) (FillValue, error) {
	switch dt {
	case Complex64:
		raw := make([]byte, 8)
		order.PutUint32(raw[0:4], math.Float32bits(float32(real(v))))
		order.PutUint32(raw[4:8], math.Float32bits(float32(imag(v))))
		return FillValue{raw: raw}, nil
	case Complex128:
		raw := make([]byte, 16)
		order.PutUint64(raw[0:8], math.Float64bits(real(v)))
		order.PutUint64(raw[8:16], math.Float64bits(imag(v)))
		return FillValue{raw: raw}, nil
	default:
		return FillValue{}, fmt.Errorf("zarrtype: %s is not a complex type", dt)
	}
}

// ParseJSON decodes a Zarr v3 `fill_value` metadata value for dt, per
// spec.md §6: a plain number for integers, a number or one of the special
// tokens "NaN"/"Infinity"/"-Infinity" for floats, a "0x"-prefixed hex
// string for a byte-exact representation (the only way to express a
// signaling NaN or an arbitrary bit pattern), true/false for Bool, and a
// two-element [re, im] array for complex types.
func ParseJSON(dt DataType, v interface{}, order binary.ByteOrder) (FillValue, error) {
	if s, ok := v.(string); ok {
		if hexRaw, ok := strings.CutPrefix(s, "0x"); ok {
			raw, err := hex.DecodeString(hexRaw)
			if err != nil {
				return FillValue{}, fmt.Errorf("zarrtype: invalid hex fill value %q: %w", s, err)
			}
			return FromBytes(dt, raw)
		}
		switch s {
		case "NaN":
			return specialFloat(dt, math.NaN(), order)
		case "Infinity":
			return specialFloat(dt, math.Inf(1), order)
		case "-Infinity":
			return specialFloat(dt, math.Inf(-1), order)
		}
		return FillValue{}, fmt.Errorf("zarrtype: unrecognised fill value token %q", s)
	}

	switch dt {
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return FillValue{}, fmt.Errorf("zarrtype: fill value %v is not a bool", v)
		}
		return FromBool(b), nil
	case Int8, Int16, Int32, Int64:
		n, err := toInt64(v)
		if err != nil {
			return FillValue{}, err
		}
		return FromInt64(dt, n, order)
	case Uint8, Uint16, Uint32, Uint64:
		n, err := toInt64(v)
		if err != nil {
			return FillValue{}, err
		}
		return FromUint64(dt, uint64(n), order)
	case Float16, Float32, Float64:
		f, err := toFloat64(v)
		if err != nil {
			return FillValue{}, err
		}
		return FromFloat64(dt, f, order)
	case Complex64, Complex128:
		arr, ok := v.([]interface{})
		if !ok || len(arr) != 2 {
			return FillValue{}, fmt.Errorf("zarrtype: complex fill value must be a [re, im] pair, got %v", v)
		}
		re, err := toFloat64(arr[0])
		if err != nil {
			return FillValue{}, err
		}
		im, err := toFloat64(arr[1])
		if err != nil {
			return FillValue{}, err
		}
		return FromComplex128(dt, complex(re, im), order)
	default:
		return FillValue{}, fmt.Errorf("zarrtype: unsupported data type %s", dt)
	}
}

func specialFloat(dt DataType, f float64, order binary.ByteOrder) (FillValue, error) {
	switch dt {
	case Float16, Float32, Float64:
		return FromFloat64(dt, f, order)
	default:
		return FillValue{}, fmt.Errorf("zarrtype: special float token is not valid for %s", dt)
	}
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err
	default:
		return 0, fmt.Errorf("zarrtype: fill value %v is not a number", v)
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err
	default:
		return 0, fmt.Errorf("zarrtype: fill value %v is not a number", v)
	}
}
