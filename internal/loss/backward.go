package loss

import (
	"github.com/born-ml/blobloss/internal/tensor"
)

// Propagate selects which inputs Backward computes a gradient for.
type Propagate struct {
	Prob  bool
	Label bool
}

// Backward returns the gradient of the loss with respect to the softmax input
// as a new tensor shaped like prob. lossWeight is the upstream gradient of the
// scalar loss. It returns nil, nil when propagate.Prob is false.
func (l *Layer[T]) Backward(prob, label *tensor.RawTensor, lossWeight T, propagate Propagate) (*tensor.RawTensor, error) {
	if propagate.Label {
		return nil, configErrorf(ErrLabelBackprop, "gradient requested for labels")
	}
	if !propagate.Prob {
		return nil, nil
	}
	diff, err := tensor.NewRaw(prob.Shape(), prob.DType())
	if err != nil {
		return nil, configErrorf(ErrRank, "%v", err)
	}
	if err := l.BackwardInto(diff, prob, label, lossWeight, propagate); err != nil {
		return nil, err
	}
	return diff, nil
}

// BackwardInto overwrites diff with the gradient of the loss:
//
//	diff[i, :, j] = (prob[i, :, j] - onehot(c)) * weight[c] * lossWeight / divisor
//
// and zero for every ignored location. diff must have the shape and dtype of
// prob; it may alias prob. Its previous contents are discarded. On error diff
// is left untouched.
func (l *Layer[T]) BackwardInto(diff, prob, label *tensor.RawTensor, lossWeight T, propagate Propagate) error {
	if propagate.Label {
		return configErrorf(ErrLabelBackprop, "gradient requested for labels")
	}
	if !propagate.Prob {
		return nil
	}
	if err := l.checkInputs(prob, label); err != nil {
		return err
	}
	if diff.DType() != prob.DType() || !diff.Shape().Equal(prob.Shape()) {
		return configErrorf(ErrGradientMismatch, "gradient %s%v, probabilities %s%v",
			diff.DType(), diff.Shape(), prob.DType(), prob.Shape())
	}
	labels, err := newLabelReader(label)
	if err != nil {
		return err
	}
	if err := l.checkLabels(labels); err != nil {
		return err
	}

	diffData := tensor.Values[T](diff)
	copy(diffData, tensor.Values[T](prob))

	valid := 0
	for i := 0; i < l.outer; i++ {
		for j := 0; j < l.inner; j++ {
			f := l.fiberAt(diffData, i, j)
			c := labels.at(i*l.inner + j)
			if l.ignored(c) {
				f.fill(0)
				continue
			}
			f.add(c, -1)
			if l.weights != nil {
				f.scale(l.weights[c])
			}
			valid++
		}
	}

	// Global scale only after every fiber is final.
	var scale T
	if d, ok := l.divisor(valid); ok {
		scale = lossWeight / d
	}
	for k := range diffData {
		diffData[k] *= scale
	}
	return nil
}
