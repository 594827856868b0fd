// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the flat typed buffers exchanged with the loss layers.
//
// # Overview
//
// A RawTensor is a row-major buffer with a Shape and a runtime DataType.
// Storage is reference counted:
//   - Share returns an alias over the same memory (zero-copy)
//   - Clone returns an independent deep copy
//   - Wrap adopts a caller slice without copying
//
// # Basic Usage
//
//	prob, _ := tensor.FromSlice([]float32{0.2, 0.3, 0.5}, tensor.Shape{1, 3, 1, 1})
//	label, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1, 1, 1, 1})
//
//	alias := prob.Share()
//	prob.AsFloat32()[0] = 0.1 // visible through alias
package tensor
