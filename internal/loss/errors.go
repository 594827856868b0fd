package loss

import (
	"errors"
	"fmt"
)

// Invariants a layer checks. Every one of them signals a programming or
// configuration mistake in the host; none is recoverable by retrying.
var (
	ErrBatchMismatch    = errors.New("probability and label batch dimensions differ")
	ErrLabelChannels    = errors.New("label tensor must have exactly one channel")
	ErrSpatialMismatch  = errors.New("probability and label spatial dimensions differ")
	ErrRank             = errors.New("tensor rank not supported")
	ErrClassAxis        = errors.New("the probability axis must be the channel axis")
	ErrClassWeights     = errors.New("number of class weight values does not match the number of classes")
	ErrInvalidWeights   = errors.New("invalid class weighting")
	ErrShapeChanged     = errors.New("tensor shape differs from the configured shape")
	ErrDTypeMismatch    = errors.New("tensor dtype not supported by the layer")
	ErrLabelOutOfRange  = errors.New("label value out of range")
	ErrLabelBackprop    = errors.New("layer cannot backpropagate to label inputs")
	ErrGradientMismatch = errors.New("gradient buffer does not match the probability tensor")
)

// ConfigError wraps one of the invariant errors above with the values that
// broke it. Use errors.Is against the sentinel to classify.
type ConfigError struct {
	Invariant error
	Details   string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %v", layerType, e.Invariant)
	}
	return fmt.Sprintf("%s: %v: %s", layerType, e.Invariant, e.Details)
}

// Unwrap returns the violated invariant.
func (e *ConfigError) Unwrap() error {
	return e.Invariant
}

func configErrorf(invariant error, format string, args ...any) *ConfigError {
	return &ConfigError{Invariant: invariant, Details: fmt.Sprintf(format, args...)}
}
