package loss

import (
	"testing"

	"github.com/born-ml/blobloss/internal/tensor"
	"github.com/stretchr/testify/assert"
)

// TestFiber_StridedAccess touches only the class values of one location.
func TestFiber_StridedAccess(t *testing.T) {
	layer := mustLayer[float32](t, DefaultConfig(), tensor.Shape{2, 3, 1, 2}, tensor.Shape{2, 1, 1, 2})

	data := make([]float32, 12)
	for i := range data {
		data[i] = float32(i)
	}

	// Batch 1, location 0: indices 6, 8, 10.
	f := layer.fiberAt(data, 1, 0)
	assert.Equal(t, float32(8), f.at(1))

	f.add(2, -1)
	f.scale(2)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 12, 7, 16, 9, 18, 11}, data)

	f.fill(0)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 0, 7, 0, 9, 0, 11}, data)
}
