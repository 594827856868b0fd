// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/blobloss/internal/tensor"
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType is the runtime element type of a RawTensor.
type DataType = tensor.DataType

// Supported element types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Int64   = tensor.Int64
)

// Float constrains the element types a loss layer can be instantiated with.
type Float = tensor.Float

// DType constrains the element types a RawTensor can hold.
type DType = tensor.DType

// RawTensor is a flat row-major buffer with reference-counted storage.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32() // zero-copy typed view
//	alias := raw.Share()    // same buffer, refcount+1
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a RawTensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Wrap creates a RawTensor that uses data as its storage.
func Wrap[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.Wrap(data, shape)
}

// Values interprets the buffer of r as []T. Panics on a dtype mismatch.
func Values[T DType](r *RawTensor) []T {
	return tensor.Values[T](r)
}
