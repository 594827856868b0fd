// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package loss

import (
	"github.com/born-ml/blobloss/internal/loss"
	"github.com/born-ml/blobloss/tensor"
)

// Config holds the loss parameters.
type Config = loss.Config

// DefaultConfig returns normalized loss over class axis 1, no masking, no weighting.
func DefaultConfig() Config {
	return loss.DefaultConfig()
}

// Layer evaluates the loss for one pair of input shapes.
type Layer[T tensor.Float] = loss.Layer[T]

// New validates cfg against the input shapes and returns a layer.
//
// Example:
//
//	layer, err := loss.New[float32](loss.DefaultConfig(),
//	    tensor.Shape{8, 21, 64, 64}, tensor.Shape{8, 1, 64, 64})
func New[T tensor.Float](cfg Config, probShape, labelShape tensor.Shape) (*Layer[T], error) {
	return loss.New[T](cfg, probShape, labelShape)
}

// ForwardOptions selects the optional outputs of Forward.
type ForwardOptions = loss.ForwardOptions

// ForwardResult holds the loss and the optional probability alias.
type ForwardResult[T tensor.Float] = loss.ForwardResult[T]

// Propagate selects the inputs Backward differentiates.
type Propagate = loss.Propagate

// ConfigError describes a violated setup or shape invariant.
type ConfigError = loss.ConfigError

// MinProb is the probability floor applied before the logarithm.
const MinProb = loss.MinProb

// Invariant errors, for use with errors.Is.
var (
	ErrBatchMismatch    = loss.ErrBatchMismatch
	ErrLabelChannels    = loss.ErrLabelChannels
	ErrSpatialMismatch  = loss.ErrSpatialMismatch
	ErrRank             = loss.ErrRank
	ErrClassAxis        = loss.ErrClassAxis
	ErrClassWeights     = loss.ErrClassWeights
	ErrInvalidWeights   = loss.ErrInvalidWeights
	ErrShapeChanged     = loss.ErrShapeChanged
	ErrDTypeMismatch    = loss.ErrDTypeMismatch
	ErrLabelOutOfRange  = loss.ErrLabelOutOfRange
	ErrLabelBackprop    = loss.ErrLabelBackprop
	ErrGradientMismatch = loss.ErrGradientMismatch
)
