// Package zarrtype implements the Zarr data type enumeration and the
// fill-value representation: a byte pattern sized to one element,
// equality-comparable against raw element spans, with endianness-aware
// special handling for non-finite floats.
package zarrtype

import "fmt"

// DataType is an enumerated primitive data type with a fixed element size.
type DataType struct {
	name string
	size int
}

func (d DataType) String() string  { return d.name }
func (d DataType) Size() int       { return d.size }
func (d DataType) IsValid() bool   { return d.size > 0 }
func (d DataType) Equal(o DataType) bool { return d.name == o.name && d.size == o.size }

var (
	Bool       = DataType{"bool", 1}
	Int8       = DataType{"int8", 1}
	Int16      = DataType{"int16", 2}
	Int32      = DataType{"int32", 4}
	Int64      = DataType{"int64", 8}
	Uint8      = DataType{"uint8", 1}
	Uint16     = DataType{"uint16", 2}
	Uint32     = DataType{"uint32", 4}
	Uint64     = DataType{"uint64", 8}
	Float16    = DataType{"float16", 2}
	Float32    = DataType{"float32", 4}
	Float64    = DataType{"float64", 8}
	Complex64  = DataType{"complex64", 8}
	Complex128 = DataType{"complex128", 16}
)

var byName = map[string]DataType{
	Bool.name: Bool, Int8.name: Int8, Int16.name: Int16, Int32.name: Int32, Int64.name: Int64,
	Uint8.name: Uint8, Uint16.name: Uint16, Uint32.name: Uint32, Uint64.name: Uint64,
	Float16.name: Float16, Float32.name: Float32, Float64.name: Float64,
	Complex64.name: Complex64, Complex128.name: Complex128,
}

// ErrUnsupportedDataType is returned by Parse for a name the metadata
// dispatch table does not recognise (spec.md §7 "unknown/unsupported
// plugin").
type ErrUnsupportedDataType struct{ Name string }

func (e *ErrUnsupportedDataType) Error() string {
	return fmt.Sprintf("zarrtype: unsupported data type %q", e.Name)
}

// Parse resolves a Zarr v3 data type name to a DataType.
func Parse(name string) (DataType, error) {
	dt, ok := byName[name]
	if !ok {
		return DataType{}, &ErrUnsupportedDataType{Name: name}
	}
	return dt, nil
}
