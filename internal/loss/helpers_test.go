package loss

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/blobloss/internal/tensor"
	"github.com/stretchr/testify/require"
)

// mustTensor builds a RawTensor from data or fails the test.
func mustTensor[T tensor.DType](t *testing.T, data []T, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return raw
}

// mustLayer builds a layer or fails the test.
func mustLayer[T tensor.Float](t *testing.T, cfg Config, probShape, labelShape tensor.Shape) *Layer[T] {
	t.Helper()
	layer, err := New[T](cfg, probShape, labelShape)
	require.NoError(t, err)
	return layer
}

// softmaxChannels applies softmax along axis 1 of a flat [outer, classes, inner] buffer.
func softmaxChannels(logits []float64, outer, classes, inner int) []float64 {
	out := make([]float64, len(logits))
	for i := 0; i < outer; i++ {
		for j := 0; j < inner; j++ {
			base := i*classes*inner + j
			maxZ := math.Inf(-1)
			for c := 0; c < classes; c++ {
				maxZ = math.Max(maxZ, logits[base+c*inner])
			}
			sum := 0.0
			for c := 0; c < classes; c++ {
				e := math.Exp(logits[base+c*inner] - maxZ)
				out[base+c*inner] = e
				sum += e
			}
			for c := 0; c < classes; c++ {
				out[base+c*inner] /= sum
			}
		}
	}
	return out
}

// randomLogits returns n values uniformly drawn from [-3, 3).
func randomLogits(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*6 - 3
	}
	return out
}
