package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/born-ml/blobloss/internal/loss"
	"github.com/born-ml/blobloss/internal/tensor"
)

var errGradientMismatch = errors.New("analytic and numerical gradients differ")

type checkOptions struct {
	seed      int64
	batch     int
	classes   int
	height    int
	width     int
	normalize bool
	weighted  bool
	ignore    int
	eps       float64
	tolerance float64
}

func parseCheckFlags(args []string, out io.Writer) (checkOptions, error) {
	var opts checkOptions
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Int64Var(&opts.seed, "seed", 1, "random seed")
	fs.IntVar(&opts.batch, "n", 2, "batch size")
	fs.IntVar(&opts.classes, "c", 4, "number of classes")
	fs.IntVar(&opts.height, "h", 3, "height")
	fs.IntVar(&opts.width, "w", 3, "width")
	fs.BoolVar(&opts.normalize, "normalize", true, "normalize by valid pixel count")
	fs.BoolVar(&opts.weighted, "weighted", true, "use random class weights")
	fs.IntVar(&opts.ignore, "ignore", -1, "ignore label, also drawn for some pixels")
	fs.Float64Var(&opts.eps, "eps", 1e-6, "finite difference step")
	fs.Float64Var(&opts.tolerance, "tol", 1e-6, "maximum absolute gradient error")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.batch <= 0 || opts.classes <= 0 || opts.height <= 0 || opts.width <= 0 {
		return opts, fmt.Errorf("dimensions must be positive")
	}
	return opts, nil
}

func runCheck(args []string, w io.Writer) error {
	opts, err := parseCheckFlags(args, w)
	if err != nil {
		return err
	}
	maxErr, err := gradientCheck(opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "max |analytic - numerical| = %.3g (tolerance %.3g)\n", maxErr, opts.tolerance)
	if maxErr > opts.tolerance {
		return errGradientMismatch
	}
	fmt.Fprintln(w, "ok")
	return nil
}

// gradientCheck differentiates loss(softmax(z)) numerically with respect to
// the logits z and returns the largest deviation from the layer's gradient.
func gradientCheck(opts checkOptions) (float64, error) {
	rng := rand.New(rand.NewSource(opts.seed))
	n, c, inner := opts.batch, opts.classes, opts.height*opts.width
	probShape := tensor.Shape{n, c, opts.height, opts.width}
	labelShape := tensor.Shape{n, 1, opts.height, opts.width}

	cfg := loss.Config{Axis: 1, Normalize: opts.normalize}.WithIgnoreLabel(opts.ignore)
	if opts.weighted {
		weights := make([]float64, c)
		for i := range weights {
			weights[i] = 0.25 + 2*rng.Float64()
		}
		cfg = cfg.WithClassWeighting(weights...)
	}
	layer, err := loss.New[float64](cfg, probShape, labelShape)
	if err != nil {
		return 0, err
	}

	labels := make([]float64, n*inner)
	for i := range labels {
		if rng.Intn(5) == 0 {
			labels[i] = float64(opts.ignore)
			continue
		}
		labels[i] = float64(rng.Intn(c))
	}
	label, err := tensor.FromSlice(labels, labelShape)
	if err != nil {
		return 0, err
	}

	logits := make([]float64, n*c*inner)
	for i := range logits {
		logits[i] = rng.NormFloat64()
	}

	lossAt := func(z []float64) (float64, error) {
		prob, err := tensor.Wrap(softmax(z, n, c, inner), probShape)
		if err != nil {
			return 0, err
		}
		out, err := layer.Forward(prob, label, loss.ForwardOptions{})
		if err != nil {
			return 0, err
		}
		return out.Loss, nil
	}

	prob, err := tensor.Wrap(softmax(logits, n, c, inner), probShape)
	if err != nil {
		return 0, err
	}
	grad, err := layer.Backward(prob, label, 1, loss.Propagate{Prob: true})
	if err != nil {
		return 0, err
	}
	analytic := grad.AsFloat64()

	maxErr := 0.0
	z := append([]float64(nil), logits...)
	for i := range z {
		z[i] = logits[i] + opts.eps
		plus, err := lossAt(z)
		if err != nil {
			return 0, err
		}
		z[i] = logits[i] - opts.eps
		minus, err := lossAt(z)
		if err != nil {
			return 0, err
		}
		z[i] = logits[i]

		numeric := (plus - minus) / (2 * opts.eps)
		maxErr = math.Max(maxErr, math.Abs(numeric-analytic[i]))
	}
	return maxErr, nil
}

// softmax normalizes logits over axis 1 of a flat [n, c, inner] buffer.
func softmax(z []float64, n, c, inner int) []float64 {
	out := make([]float64, len(z))
	for i := 0; i < n; i++ {
		for j := 0; j < inner; j++ {
			base := i*c*inner + j
			maxZ := math.Inf(-1)
			for k := 0; k < c; k++ {
				maxZ = math.Max(maxZ, z[base+k*inner])
			}
			sum := 0.0
			for k := 0; k < c; k++ {
				out[base+k*inner] = math.Exp(z[base+k*inner] - maxZ)
				sum += out[base+k*inner]
			}
			for k := 0; k < c; k++ {
				out[base+k*inner] /= sum
			}
		}
	}
	return out
}
