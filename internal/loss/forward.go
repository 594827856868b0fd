package loss

import (
	"math"

	"github.com/born-ml/blobloss/internal/tensor"
)

// ForwardOptions selects the optional outputs of Forward.
type ForwardOptions struct {
	// ExposeProb requests the second output: an alias of the probability
	// input, for layers downstream that consume the softmax output.
	ExposeProb bool
}

// ForwardResult holds the outputs of one Forward call.
type ForwardResult[T tensor.Float] struct {
	// Loss is the (optionally weighted) mean negative log-likelihood.
	Loss T

	// ValidCount is the number of locations that were not ignored.
	ValidCount int

	// Prob shares storage with the probability input when requested, nil otherwise.
	Prob *tensor.RawTensor
}

// Forward computes the multinomial logistic loss of prob against label.
//
// For every location (i, j) whose label c is not ignored:
//
//	loss += -log(max(prob[i, c, j], MinProb)) * weight[c]
//
// The sum is divided by the number of such locations when the layer
// normalizes, otherwise by OuterCount. Normalizing over zero valid locations
// yields a loss of 0. prob is never modified.
func (l *Layer[T]) Forward(prob, label *tensor.RawTensor, opts ForwardOptions) (*ForwardResult[T], error) {
	if err := l.checkInputs(prob, label); err != nil {
		return nil, err
	}
	labels, err := newLabelReader(label)
	if err != nil {
		return nil, err
	}
	if err := l.checkLabels(labels); err != nil {
		return nil, err
	}

	probData := tensor.Values[T](prob)
	floor := T(MinProb)

	var loss T
	valid := 0
	for i := 0; i < l.outer; i++ {
		for j := 0; j < l.inner; j++ {
			c := labels.at(i*l.inner + j)
			if l.ignored(c) {
				continue
			}
			p := max(l.fiberAt(probData, i, j).at(c), floor)
			nll := -T(math.Log(float64(p)))
			if l.weights != nil {
				nll *= l.weights[c]
			}
			loss += nll
			valid++
		}
	}

	result := &ForwardResult[T]{ValidCount: valid}
	if d, ok := l.divisor(valid); ok {
		result.Loss = loss / d
	}
	if opts.ExposeProb {
		result.Prob = prob.Share()
	}
	return result, nil
}
