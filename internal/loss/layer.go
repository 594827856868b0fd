// Package loss implements a spatially dense multinomial logistic loss over
// softmax probabilities, with optional label masking and per-class weighting.
//
// The probability tensor has shape [N, C, ...spatial] and the label tensor
// [N, 1, ...spatial], one class id per location. Forward reduces them to a
// scalar loss, Backward writes the gradient with respect to the softmax input:
//
//	layer, err := loss.New[float32](cfg, probShape, labelShape)
//	out, err := layer.Forward(prob, label, loss.ForwardOptions{})
//	grad, err := layer.Backward(prob, label, 1, loss.Propagate{Prob: true})
package loss

import (
	"github.com/born-ml/blobloss/internal/tensor"
)

const layerType = "BlobMultinomialLogisticLoss"

// MinProb is the floor applied to a probability before taking its logarithm.
// It equals FLT_MIN, the smallest normal float32, for both element types.
const MinProb = 0x1p-126

// Layer is a configured loss evaluator for one pair of input shapes.
//
// Configuration and class weights are fixed at construction. Shapes may be
// changed between batches with Reshape. A Layer is not safe for concurrent
// use while Reshape runs; Forward and Backward only read its fields.
type Layer[T tensor.Float] struct {
	cfg     Config
	weights []T // nil unless cfg.WeightByLabelFreqs

	axis    int
	outer   int
	inner   int
	classes int

	// Row-major strides of the outer and class axes.
	outerStride int
	classStride int

	probShape  tensor.Shape
	labelShape tensor.Shape
}

// New validates cfg against the probability and label shapes and returns a
// ready layer. Any failure is a *ConfigError.
func New[T tensor.Float](cfg Config, probShape, labelShape tensor.Shape) (*Layer[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Layer[T]{cfg: cfg}
	l.cfg.ClassWeighting = append([]float64(nil), cfg.ClassWeighting...)
	if cfg.WeightByLabelFreqs {
		// Weights are held at float32 precision whatever T is.
		l.weights = make([]T, len(cfg.ClassWeighting))
		for i, w := range cfg.ClassWeighting {
			l.weights[i] = T(float32(w))
		}
	}

	if err := l.Reshape(probShape, labelShape); err != nil {
		return nil, err
	}
	return l, nil
}

// Reshape revalidates the layer for new input shapes and recomputes the
// derived counts. The layer is left unchanged when validation fails.
func (l *Layer[T]) Reshape(probShape, labelShape tensor.Shape) error {
	if err := checkShapes(probShape, labelShape); err != nil {
		return err
	}

	axis, err := probShape.CanonicalAxis(l.cfg.Axis)
	if err != nil {
		return configErrorf(ErrClassAxis, "%v", err)
	}
	if axis != 1 {
		return configErrorf(ErrClassAxis, "got axis %d for shape %v", axis, probShape)
	}

	classes := probShape[axis]
	if l.weights != nil && len(l.weights) != classes {
		return configErrorf(ErrClassWeights, "%d weights for %d classes", len(l.weights), classes)
	}

	strides := probShape.ComputeStrides()
	l.axis = axis
	l.outerStride = strides[axis-1]
	l.classStride = strides[axis]
	l.classes = classes
	l.outer = probShape.Count(0, axis)
	l.inner = probShape.Count(axis+1, len(probShape))
	l.probShape = probShape.Clone()
	l.labelShape = labelShape.Clone()
	return nil
}

// checkShapes enforces the probability/label pairing: same batch, one label
// channel, identical trailing (spatial) dimensions.
func checkShapes(probShape, labelShape tensor.Shape) error {
	if len(probShape) < 2 {
		return configErrorf(ErrRank, "probability shape %v needs at least 2 dimensions", probShape)
	}
	if err := probShape.Validate(); err != nil {
		return configErrorf(ErrRank, "probability shape: %v", err)
	}
	if len(labelShape) != len(probShape) {
		return configErrorf(ErrRank, "label shape %v and probability shape %v have different ranks",
			labelShape, probShape)
	}
	if err := labelShape.Validate(); err != nil {
		return configErrorf(ErrRank, "label shape: %v", err)
	}
	if probShape[0] != labelShape[0] {
		return configErrorf(ErrBatchMismatch, "%d vs %d", probShape[0], labelShape[0])
	}
	if labelShape[1] != 1 {
		return configErrorf(ErrLabelChannels, "got %d", labelShape[1])
	}
	if !probShape[2:].Equal(labelShape[2:]) {
		return configErrorf(ErrSpatialMismatch, "%v vs %v", probShape[2:], labelShape[2:])
	}
	return nil
}

// Type returns the layer type name.
func (l *Layer[T]) Type() string {
	return layerType
}

// MinOutputs is the number of outputs always produced (the loss).
func (l *Layer[T]) MinOutputs() int { return 1 }

// MaxOutputs counts the optional probability echo.
func (l *Layer[T]) MaxOutputs() int { return 2 }

// Config returns a copy of the layer configuration.
func (l *Layer[T]) Config() Config {
	cfg := l.cfg
	cfg.ClassWeighting = append([]float64(nil), l.cfg.ClassWeighting...)
	return cfg
}

// ClassWeights returns a copy of the weight table, or nil when weighting is off.
func (l *Layer[T]) ClassWeights() []T {
	if l.weights == nil {
		return nil
	}
	return append([]T(nil), l.weights...)
}

// OuterCount is the number of groups before the class axis (the batch size).
func (l *Layer[T]) OuterCount() int { return l.outer }

// InnerCount is the number of spatial locations per group.
func (l *Layer[T]) InnerCount() int { return l.inner }

// ClassCount is the size of the class axis.
func (l *Layer[T]) ClassCount() int { return l.classes }

// ProbShape returns the probability shape the layer is configured for.
func (l *Layer[T]) ProbShape() tensor.Shape { return l.probShape.Clone() }

// LabelShape returns the label shape the layer is configured for.
func (l *Layer[T]) LabelShape() tensor.Shape { return l.labelShape.Clone() }

// checkInputs verifies that the tensors handed to Forward or Backward match
// the configured shapes and element type.
func (l *Layer[T]) checkInputs(prob, label *tensor.RawTensor) error {
	if want := tensor.DataTypeOf[T](); prob.DType() != want {
		return configErrorf(ErrDTypeMismatch, "probabilities are %s, layer is %s", prob.DType(), want)
	}
	if !prob.Shape().Equal(l.probShape) {
		return configErrorf(ErrShapeChanged, "probabilities %v, configured %v", prob.Shape(), l.probShape)
	}
	if !label.Shape().Equal(l.labelShape) {
		return configErrorf(ErrShapeChanged, "labels %v, configured %v", label.Shape(), l.labelShape)
	}
	return nil
}

func (l *Layer[T]) ignored(c int) bool {
	return l.cfg.HasIgnoreLabel && c == l.cfg.IgnoreLabel
}

// checkLabels rejects any non-ignored label outside [0, ClassCount) before a
// pass starts, so a failing call writes nothing.
func (l *Layer[T]) checkLabels(labels labelReader) error {
	for i := 0; i < l.outer; i++ {
		for j := 0; j < l.inner; j++ {
			c := labels.at(i*l.inner + j)
			if l.ignored(c) {
				continue
			}
			if c < 0 || c >= l.classes {
				return configErrorf(ErrLabelOutOfRange,
					"label %d at batch %d location %d, want [0, %d)", c, i, j, l.classes)
			}
		}
	}
	return nil
}

// divisor returns the normalizer for a pass that counted valid locations.
// It reports false when normalizing over zero valid locations.
func (l *Layer[T]) divisor(valid int) (T, bool) {
	if !l.cfg.Normalize {
		return T(l.outer), true
	}
	if valid == 0 {
		return 0, false
	}
	return T(valid), true
}
