package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Count returns the product of the dimensions in [start, end).
//
// An empty range counts as 1, so Count(0, 0) and Count(len(s), len(s)) are
// both 1. Panics if the range is outside the shape.
//
// Example:
//
//	s := Shape{2, 3, 4, 5}
//	s.Count(0, 1) // 2   (everything before axis 1)
//	s.Count(2, 4) // 20  (everything after axis 1)
func (s Shape) Count(start, end int) int {
	if start < 0 || end > len(s) || start > end {
		panic(fmt.Sprintf("shape %v: count range [%d, %d) out of bounds", s, start, end))
	}
	n := 1
	for _, dim := range s[start:end] {
		n *= dim
	}
	return n
}

// CanonicalAxis maps a possibly negative axis index to [0, len(s)).
// Negative values count from the last dimension (-1 is the last axis).
func (s Shape) CanonicalAxis(axis int) (int, error) {
	rank := len(s)
	if axis < -rank || axis >= rank {
		return 0, fmt.Errorf("axis %d out of range for shape %v (rank %d)", axis, s, rank)
	}
	if axis < 0 {
		return axis + rank, nil
	}
	return axis, nil
}

// String formats the shape like (2, 3, 4).
func (s Shape) String() string {
	if len(s) == 0 {
		return "()"
	}
	out := "("
	for i, dim := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(dim)
	}
	return out + ")"
}
