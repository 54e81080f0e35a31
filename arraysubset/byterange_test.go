package arraysubset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64p(v uint64) *uint64 { return &v }

func TestByteRangeFromStart(t *testing.T) {
	r := FromStart(10, u64p(5))
	start, err := r.Start(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), start)

	end, err := r.End(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), end)
}

func TestByteRangeFromEnd(t *testing.T) {
	r := FromEnd(10, u64p(5))
	start, err := r.Start(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(90), start)

	end, err := r.End(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(95), end)
}

func TestByteRangePastEOF(t *testing.T) {
	r := FromStart(95, u64p(10))
	_, err := r.End(100)
	assert.Error(t, err)
	var target *ErrInvalidByteRange
	assert.ErrorAs(t, err, &target)
}

func TestByteRangeExtract(t *testing.T) {
	data := []byte("hello world")
	r := FromStart(6, u64p(5))
	got, err := r.Extract(data)
	require.NoError(t, err)
	assert.Equal(t, "world", string(got))
}

func TestByteRangeOpenEnded(t *testing.T) {
	data := []byte("hello world")
	r := FromStart(6, nil)
	got, err := r.Extract(data)
	require.NoError(t, err)
	assert.Equal(t, "world", string(got))
}
