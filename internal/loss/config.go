package loss

import (
	"fmt"
	"math"
)

// Config holds the loss parameters. It is copied into a Layer at setup and
// never changes afterwards.
type Config struct {
	// HasIgnoreLabel enables masking of locations whose label is IgnoreLabel.
	HasIgnoreLabel bool
	IgnoreLabel    int

	// Normalize divides by the number of contributing locations instead of
	// the batch size.
	Normalize bool

	// WeightByLabelFreqs scales each location by ClassWeighting[label].
	WeightByLabelFreqs bool
	ClassWeighting     []float64

	// Axis is the class axis of the probability tensor. Negative values count
	// from the end. Only the channel axis (1) is supported.
	Axis int
}

// DefaultConfig returns the parameter defaults: normalized, class axis 1,
// no ignore label, no class weighting.
func DefaultConfig() Config {
	return Config{
		Normalize: true,
		Axis:      1,
	}
}

// WithIgnoreLabel returns a copy of c that masks locations labeled label.
func (c Config) WithIgnoreLabel(label int) Config {
	c.HasIgnoreLabel = true
	c.IgnoreLabel = label
	return c
}

// WithClassWeighting returns a copy of c with per-class weighting enabled.
func (c Config) WithClassWeighting(weights ...float64) Config {
	c.WeightByLabelFreqs = true
	c.ClassWeighting = append([]float64(nil), weights...)
	return c
}

// Validate checks the fields that do not depend on tensor shapes.
func (c Config) Validate() error {
	if !c.WeightByLabelFreqs {
		return nil
	}
	if len(c.ClassWeighting) == 0 {
		return configErrorf(ErrInvalidWeights, "weighting enabled but no class weights given")
	}
	for i, w := range c.ClassWeighting {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return configErrorf(ErrInvalidWeights, "class %d has non-finite weight %v", i, w)
		}
		if w < 0 {
			return configErrorf(ErrInvalidWeights, "class %d has negative weight %v", i, w)
		}
	}
	return nil
}

// String renders the configuration for diagnostics.
func (c Config) String() string {
	ignore := "none"
	if c.HasIgnoreLabel {
		ignore = fmt.Sprint(c.IgnoreLabel)
	}
	weights := "off"
	if c.WeightByLabelFreqs {
		weights = fmt.Sprint(c.ClassWeighting)
	}
	return fmt.Sprintf("ignore_label=%s normalize=%t class_weighting=%s axis=%d",
		ignore, c.Normalize, weights, c.Axis)
}
