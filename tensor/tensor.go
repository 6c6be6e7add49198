// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor values in the Ember
// framework.
//
// Tensors are the payloads stored in workspaces and produced by operator
// kernels. This package exposes the core types and creation functions:
//
//	x, err := tensor.FromFloat32s([]float32{1, -1, 2, -2}, tensor.Shape{2, 2})
//	y, err := tensor.Zeros(tensor.Shape{3, 4}, tensor.Float32)
package tensor

import (
	"math/rand"

	"github.com/ember-ml/ember/internal/tensor"
)

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is the framework's tensor representation: a flat buffer plus
// shape, strides, and runtime type information.
type RawTensor = tensor.RawTensor

// NewRaw creates a new zero-initialized tensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype)
}

// Full creates a Float32 tensor filled with value.
func Full(shape Shape, value float32) (*RawTensor, error) {
	return tensor.Full(shape, value)
}

// FromFloat32s creates a Float32 tensor from a slice. The slice is copied.
func FromFloat32s(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat32s(data, shape)
}

// FromInt32s creates an Int32 tensor from a slice. The slice is copied.
func FromInt32s(data []int32, shape Shape) (*RawTensor, error) {
	return tensor.FromInt32s(data, shape)
}

// RandFloat32 creates a Float32 tensor with values drawn uniformly from
// [lo, hi) using rng.
func RandFloat32(shape Shape, lo, hi float32, rng *rand.Rand) (*RawTensor, error) {
	return tensor.RandFloat32(shape, lo, hi, rng)
}

// RandnFloat32 creates a Float32 tensor with values drawn from N(mean, std)
// using rng.
func RandnFloat32(shape Shape, mean, std float32, rng *rand.Rand) (*RawTensor, error) {
	return tensor.RandnFloat32(shape, mean, std, rng)
}

// XavierFloat32 creates a Float32 tensor with Xavier/Glorot uniform
// initialization for the given fan-in.
func XavierFloat32(shape Shape, fanIn int, rng *rand.Rand) (*RawTensor, error) {
	return tensor.XavierFloat32(shape, fanIn, rng)
}

// BroadcastShapes computes the broadcast shape for two shapes following
// NumPy broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
