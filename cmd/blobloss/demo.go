package main

import (
	"fmt"
	"io"

	"github.com/born-ml/blobloss/internal/loss"
	"github.com/born-ml/blobloss/internal/tensor"
)

type demoCase struct {
	name  string
	cfg   loss.Config
	prob  []float32
	label float32
}

func demoCases() []demoCase {
	base := loss.Config{Axis: 1}
	prob := []float32{0.2, 0.3, 0.5}
	return []demoCase{
		{name: "plain", cfg: base, prob: prob, label: 2},
		{name: "ignored", cfg: base.WithIgnoreLabel(2), prob: prob, label: 2},
		{name: "weighted", cfg: base.WithClassWeighting(1, 2, 3), prob: prob, label: 2},
		{name: "zero probability", cfg: base, prob: []float32{0.5, 0.5, 0}, label: 2},
	}
}

// runDemo evaluates each case on a single 1x1 pixel with three classes.
func runDemo(w io.Writer) error {
	probShape := tensor.Shape{1, 3, 1, 1}
	labelShape := tensor.Shape{1, 1, 1, 1}

	for _, dc := range demoCases() {
		layer, err := loss.New[float32](dc.cfg, probShape, labelShape)
		if err != nil {
			return fmt.Errorf("%s: %w", dc.name, err)
		}
		prob, err := tensor.FromSlice(dc.prob, probShape)
		if err != nil {
			return err
		}
		label, err := tensor.FromSlice([]float32{dc.label}, labelShape)
		if err != nil {
			return err
		}

		out, err := layer.Forward(prob, label, loss.ForwardOptions{})
		if err != nil {
			return fmt.Errorf("%s: %w", dc.name, err)
		}
		grad, err := layer.Backward(prob, label, 1, loss.Propagate{Prob: true})
		if err != nil {
			return fmt.Errorf("%s: %w", dc.name, err)
		}

		fmt.Fprintf(w, "%-16s %s\n", dc.name, dc.cfg)
		fmt.Fprintf(w, "  prob=%v label=%v\n", dc.prob, dc.label)
		fmt.Fprintf(w, "  loss=%.4f valid=%d grad=%v\n", out.Loss, out.ValidCount, grad.AsFloat32())
	}
	return nil
}
