package loss

import "github.com/born-ml/blobloss/internal/tensor"

// fiber is a strided view of the class values at one (outer, inner) location
// of a flat [outer, classes, inner] buffer.
type fiber[T tensor.Float] struct {
	data   []T
	base   int
	stride int
	n      int
}

func (l *Layer[T]) fiberAt(data []T, i, j int) fiber[T] {
	return fiber[T]{
		data:   data,
		base:   i*l.outerStride + j,
		stride: l.classStride,
		n:      l.classes,
	}
}

func (f fiber[T]) at(c int) T {
	return f.data[f.base+c*f.stride]
}

func (f fiber[T]) add(c int, v T) {
	f.data[f.base+c*f.stride] += v
}

func (f fiber[T]) fill(v T) {
	for c, k := 0, f.base; c < f.n; c, k = c+1, k+f.stride {
		f.data[k] = v
	}
}

func (f fiber[T]) scale(s T) {
	for c, k := 0, f.base; c < f.n; c, k = c+1, k+f.stride {
		f.data[k] *= s
	}
}
