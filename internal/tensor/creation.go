package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return NewRaw(shape, dtype)
}

// Full creates a Float32 tensor filled with value.
func Full(shape Shape, value float32) (*RawTensor, error) {
	t, err := NewRaw(shape, Float32)
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()
	for i := range data {
		data[i] = value
	}
	return t, nil
}

// FromFloat32s creates a Float32 tensor from a slice. The slice is copied.
//
// Example:
//
//	x, err := tensor.FromFloat32s([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromFloat32s(data []float32, shape Shape) (*RawTensor, error) {
	t, err := NewRaw(shape, Float32)
	if err != nil {
		return nil, err
	}
	if len(data) != t.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, t.NumElements())
	}
	copy(t.AsFloat32(), data)
	return t, nil
}

// FromInt32s creates an Int32 tensor from a slice. The slice is copied.
func FromInt32s(data []int32, shape Shape) (*RawTensor, error) {
	t, err := NewRaw(shape, Int32)
	if err != nil {
		return nil, err
	}
	if len(data) != t.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, t.NumElements())
	}
	copy(t.AsInt32(), data)
	return t, nil
}

// RandFloat32 creates a Float32 tensor with values drawn uniformly from
// [lo, hi) using rng. Callers pass a seeded source so fillers stay
// reproducible.
func RandFloat32(shape Shape, lo, hi float32, rng *rand.Rand) (*RawTensor, error) {
	t, err := NewRaw(shape, Float32)
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()
	for i := range data {
		data[i] = lo + (hi-lo)*rng.Float32()
	}
	return t, nil
}

// RandnFloat32 creates a Float32 tensor with values drawn from N(mean, std)
// using rng. Uses math/rand (not crypto/rand), which is appropriate for
// statistical initialization.
func RandnFloat32(shape Shape, mean, std float32, rng *rand.Rand) (*RawTensor, error) {
	t, err := NewRaw(shape, Float32)
	if err != nil {
		return nil, err
	}
	data := t.AsFloat32()
	for i := range data {
		data[i] = mean + std*float32(rng.NormFloat64())
	}
	return t, nil
}

// XavierFloat32 creates a Float32 tensor with Xavier/Glorot uniform
// initialization: U(-scale, scale) with scale = sqrt(3 / fanIn).
func XavierFloat32(shape Shape, fanIn int, rng *rand.Rand) (*RawTensor, error) {
	if fanIn <= 0 {
		return nil, fmt.Errorf("xavier init: fan-in must be positive, got %d", fanIn)
	}
	scale := float32(math.Sqrt(3.0 / float64(fanIn)))
	return RandFloat32(shape, -scale, scale, rng)
}
