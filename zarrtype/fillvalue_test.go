package zarrtype

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	dt, err := Parse("float32")
	require.NoError(t, err)
	assert.Equal(t, 4, dt.Size())

	_, err = Parse("bogus")
	assert.Error(t, err)
}

func TestFillValueEqualsAll(t *testing.T) {
	fv, err := FromFloat64(Float32, 1.0, binary.LittleEndian)
	require.NoError(t, err)

	ones := fv.Repeat(16)
	assert.True(t, fv.EqualsAll(ones))

	ones[4] = 0xFF
	assert.False(t, fv.EqualsAll(ones))
}

func TestFillValueParseJSONSpecialFloats(t *testing.T) {
	fv, err := ParseJSON(Float64, "NaN", binary.LittleEndian)
	require.NoError(t, err)
	bits := binary.LittleEndian.Uint64(fv.Bytes())
	assert.True(t, math.IsNaN(math.Float64frombits(bits)))

	fv, err = ParseJSON(Float64, "Infinity", binary.LittleEndian)
	require.NoError(t, err)
	assert.True(t, math.IsInf(math.Float64frombits(binary.LittleEndian.Uint64(fv.Bytes())), 1))

	fv, err = ParseJSON(Float64, "-Infinity", binary.LittleEndian)
	require.NoError(t, err)
	assert.True(t, math.IsInf(math.Float64frombits(binary.LittleEndian.Uint64(fv.Bytes())), -1))
}

func TestFillValueParseJSONHexPreservesSignalingNaN(t *testing.T) {
	// A signaling NaN bit pattern for float32 (quiet-NaN bit unset).
	fv, err := ParseJSON(Float32, "0x0000a07f", binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x7fa00000), binary.LittleEndian.Uint32(fv.Bytes()))
}

func TestFillValueParseJSONComplex(t *testing.T) {
	fv, err := ParseJSON(Complex64, []interface{}{1.5, -2.5}, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, fv.Bytes(), 8)
	re := math.Float32frombits(binary.LittleEndian.Uint32(fv.Bytes()[0:4]))
	im := math.Float32frombits(binary.LittleEndian.Uint32(fv.Bytes()[4:8]))
	assert.Equal(t, float32(1.5), re)
	assert.Equal(t, float32(-2.5), im)
}

func TestFillValueParseJSONBool(t *testing.T) {
	fv, err := ParseJSON(Bool, true, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, fv.Bytes())
}
