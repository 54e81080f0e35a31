package arraysubset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsetOverlap(t *testing.T) {
	a := New([]uint64{2, 2}, []uint64{4, 4})
	b := New([]uint64{4, 4}, []uint64{4, 4})
	got := a.Overlap(b)
	assert.Equal(t, []uint64{4, 4}, got.Start)
	assert.Equal(t, []uint64{2, 2}, got.Shape)

	c := New([]uint64{10, 10}, []uint64{2, 2})
	disjoint := a.Overlap(c)
	assert.True(t, disjoint.IsEmpty())
}

func TestSubsetRelativeTo(t *testing.T) {
	s := New([]uint64{5, 5}, []uint64{3, 3})
	rel, err := s.RelativeTo([]uint64{4, 4})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 1}, rel.Start)
	assert.Equal(t, []uint64{3, 3}, rel.Shape)

	_, err = s.RelativeTo([]uint64{6, 4})
	assert.Error(t, err)
}

func TestContiguousLinearisedIndicesScenarioC1(t *testing.T) {
	// Scenario C1: a 2x2x2 chunk, subset [0:2, 1:2, 0:1].
	s := New([]uint64{0, 1, 0}, []uint64{2, 1, 1})
	runs, err := s.ContiguousLinearisedIndices([]uint64{2, 2, 2})
	require.NoError(t, err)

	// Elements 0..7 row-major; subset picks indices (0,1,0)=2 and (1,1,0)=6.
	var got []uint64
	for _, r := range runs {
		for i := uint64(0); i < r.Length; i++ {
			got = append(got, r.Start+i)
		}
	}
	assert.Equal(t, []uint64{2, 6}, got)
}

func TestContiguousLinearisedIndicesCoalesces(t *testing.T) {
	// A subset that fully spans the trailing axis coalesces into one run
	// per outer-axis combination.
	s := New([]uint64{1, 0}, []uint64{2, 4})
	runs, err := s.ContiguousLinearisedIndices([]uint64{4, 4})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, uint64(4), runs[0].Start)
	assert.Equal(t, uint64(8), runs[0].Length)
}

func TestContiguousLinearisedIndicesEmpty(t *testing.T) {
	s := New([]uint64{0, 0}, []uint64{0, 4})
	runs, err := s.ContiguousLinearisedIndices([]uint64{4, 4})
	require.NoError(t, err)
	assert.Nil(t, runs)
}

func TestSubsetInBoundsOf(t *testing.T) {
	s := New([]uint64{6, 6}, []uint64{4, 4})
	assert.True(t, s.InBoundsOf([]uint64{10, 10}))
	assert.False(t, s.InBoundsOf([]uint64{8, 10}))
}

func TestSubsetIterate(t *testing.T) {
	s := New([]uint64{1, 1}, []uint64{2, 2})
	var coords [][]uint64
	s.Iterate(func(c []uint64) bool {
		cp := append([]uint64(nil), c...)
		coords = append(coords, cp)
		return true
	})
	assert.Equal(t, [][]uint64{{1, 1}, {1, 2}, {2, 1}, {2, 2}}, coords)
}
