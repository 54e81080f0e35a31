package ndarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTensorBuildsTensorOverShape(t *testing.T) {
	flat := []float32{1, 2, 3, 4, 5, 6}
	tensor, err := ToTensor(flat, []uint64{2, 3})
	require.NoError(t, err)
	assert.NotNil(t, tensor)
}

func TestToTensorRejectsMismatchedElementCount(t *testing.T) {
	_, err := ToTensor([]float32{1, 2, 3}, []uint64{2, 2})
	require.Error(t, err)
}
