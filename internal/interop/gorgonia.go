// Package interop adapts gorgonia dense tensors to the loss layers, so a
// gorgonia-based training loop can use them as its host framework.
package interop

import (
	"errors"
	"fmt"

	gorgonia "gorgonia.org/tensor"

	"github.com/born-ml/blobloss/internal/loss"
	"github.com/born-ml/blobloss/internal/tensor"
)

// ErrUnsupported is returned for dense tensors that cannot be exchanged.
var ErrUnsupported = errors.New("unsupported dense tensor")

// FromDense exposes a gorgonia dense tensor as a RawTensor.
//
// Float32, Float64, Int32 and Int64 backings are shared without copying.
// Int backings (the usual type of label tensors) are copied into Int64.
// Views must be materialized by the caller first.
func FromDense(d *gorgonia.Dense) (*tensor.RawTensor, error) {
	if d.IsMaterializable() {
		return nil, fmt.Errorf("%w: dense tensor is a view, materialize it first", ErrUnsupported)
	}
	shape := tensor.Shape(append([]int(nil), d.Shape()...))

	switch data := d.Data().(type) {
	case []float32:
		return tensor.Wrap(data, shape)
	case []float64:
		return tensor.Wrap(data, shape)
	case []int32:
		return tensor.Wrap(data, shape)
	case []int64:
		return tensor.Wrap(data, shape)
	case []int:
		labels := make([]int64, len(data))
		for i, v := range data {
			labels[i] = int64(v)
		}
		return tensor.FromSlice(labels, shape)
	default:
		return nil, fmt.Errorf("%w: dtype %v with shape %v", ErrUnsupported, d.Dtype(), d.Shape())
	}
}

// ToDense exposes a RawTensor as a gorgonia dense tensor sharing its storage.
func ToDense(r *tensor.RawTensor) (*gorgonia.Dense, error) {
	shape := append([]int(nil), r.Shape()...)

	var backing any
	switch r.DType() {
	case tensor.Float32:
		backing = r.AsFloat32()
	case tensor.Float64:
		backing = r.AsFloat64()
	case tensor.Int32:
		backing = r.AsInt32()
	case tensor.Int64:
		backing = r.AsInt64()
	default:
		return nil, fmt.Errorf("%w: dtype %s", ErrUnsupported, r.DType())
	}
	return gorgonia.New(gorgonia.WithShape(shape...), gorgonia.WithBacking(backing)), nil
}

// Step is the result of one forward/backward evaluation.
type Step[T tensor.Float] struct {
	Loss       T
	ValidCount int

	// Grad has the shape of the probabilities. It is all zeros for a zero loss weight.
	Grad *gorgonia.Dense
}

// Evaluate runs Forward and Backward on gorgonia inputs. The layer is reshaped first when the input shapes changed.
func Evaluate[T tensor.Float](layer *loss.Layer[T], prob, label *gorgonia.Dense, lossWeight T) (*Step[T], error) {
	probRaw, err := FromDense(prob)
	if err != nil {
		return nil, fmt.Errorf("probabilities: %w", err)
	}
	labelRaw, err := FromDense(label)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}

	if !probRaw.Shape().Equal(layer.ProbShape()) || !labelRaw.Shape().Equal(layer.LabelShape()) {
		if err := layer.Reshape(probRaw.Shape(), labelRaw.Shape()); err != nil {
			return nil, err
		}
	}

	out, err := layer.Forward(probRaw, labelRaw, loss.ForwardOptions{})
	if err != nil {
		return nil, err
	}
	step := &Step[T]{Loss: out.Loss, ValidCount: out.ValidCount}
	grad, err := layer.Backward(probRaw, labelRaw, lossWeight, loss.Propagate{Prob: true})
	if err != nil {
		return nil, err
	}
	if step.Grad, err = ToDense(grad); err != nil {
		return nil, err
	}
	return step, nil
}
