package interop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gorgonia "gorgonia.org/tensor"

	"github.com/born-ml/blobloss/internal/loss"
	"github.com/born-ml/blobloss/internal/tensor"
)

// TestFromDense_SharesFloatBacking wraps float backings without copying.
func TestFromDense_SharesFloatBacking(t *testing.T) {
	backing := []float32{0.2, 0.3, 0.5, 0.1, 0.1, 0.8}
	d := gorgonia.New(gorgonia.WithShape(2, 3), gorgonia.WithBacking(backing))

	raw, err := FromDense(d)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, raw.Shape())
	assert.Equal(t, tensor.Float32, raw.DType())

	backing[4] = 0.4
	assert.Equal(t, float32(0.4), raw.AsFloat32()[4])
}

// TestFromDense_IntLabels converts Go int labels to int64.
func TestFromDense_IntLabels(t *testing.T) {
	d := gorgonia.New(gorgonia.WithShape(2, 1), gorgonia.WithBacking([]int{2, 0}))

	raw, err := FromDense(d)
	require.NoError(t, err)
	assert.Equal(t, tensor.Int64, raw.DType())
	assert.Equal(t, []int64{2, 0}, raw.AsInt64())
}

// TestFromDense_Unsupported rejects backings the loss cannot read.
func TestFromDense_Unsupported(t *testing.T) {
	d := gorgonia.New(gorgonia.WithShape(2), gorgonia.WithBacking([]bool{true, false}))

	_, err := FromDense(d)
	require.ErrorIs(t, err, ErrUnsupported)
}

// TestToDense_SharesStorage round-trips a RawTensor.
func TestToDense_SharesStorage(t *testing.T) {
	raw, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)

	d, err := ToDense(raw)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, []int(d.Shape()))

	raw.AsFloat64()[3] = 40
	assert.Equal(t, []float64{1, 2, 3, 40}, d.Data())
}

// TestEvaluate runs a full step on gorgonia tensors.
func TestEvaluate(t *testing.T) {
	cfg := loss.Config{Axis: 1}.WithIgnoreLabel(255)
	layer, err := loss.New[float32](cfg, tensor.Shape{1, 3, 1, 1}, tensor.Shape{1, 1, 1, 1})
	require.NoError(t, err)

	prob := gorgonia.New(gorgonia.WithShape(1, 3, 1, 2), gorgonia.WithBacking([]float32{
		0.2, 0.6,
		0.3, 0.2,
		0.5, 0.2,
	}))
	label := gorgonia.New(gorgonia.WithShape(1, 1, 1, 2), gorgonia.WithBacking([]float32{2, 255}))

	step, err := Evaluate(layer, prob, label, 1)
	require.NoError(t, err)

	assert.InDelta(t, -math.Log(0.5), step.Loss, 1e-6)
	assert.Equal(t, 1, step.ValidCount)
	assert.Equal(t, 2, layer.InnerCount(), "layer should follow the new spatial size")

	require.NotNil(t, step.Grad)
	assert.Equal(t, []int{1, 3, 1, 2}, []int(step.Grad.Shape()))
	assert.InDeltaSlice(t, []float32{0.2, 0, 0.3, 0, -0.5, 0}, step.Grad.Data(), 1e-6)
}

// TestEvaluate_ZeroLossWeight still writes a gradient, all zeros.
func TestEvaluate_ZeroLossWeight(t *testing.T) {
	layer, err := loss.New[float64](loss.DefaultConfig(), tensor.Shape{2, 2}, tensor.Shape{2, 1})
	require.NoError(t, err)

	prob := gorgonia.New(gorgonia.WithShape(2, 2), gorgonia.WithBacking([]float64{0.25, 0.75, 0.5, 0.5}))
	label := gorgonia.New(gorgonia.WithShape(2, 1), gorgonia.WithBacking([]int{1, 0}))

	step, err := Evaluate(layer, prob, label, 0)
	require.NoError(t, err)
	assert.InDelta(t, (-math.Log(0.75)-math.Log(0.5))/2, step.Loss, 1e-12)
	require.NotNil(t, step.Grad)
	assert.Equal(t, []int{2, 2}, []int(step.Grad.Shape()))
	assert.Equal(t, []float64{0, 0, 0, 0}, step.Grad.Data())
}
