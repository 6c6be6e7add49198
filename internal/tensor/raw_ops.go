// Tensor kernels used by the operator registry. Float32 is the primary
// compute type; other dtypes are supported where the cost is trivial.
package tensor

import (
	"fmt"
	"math"
)

// ReLU applies max(x, 0) element-wise.
func ReLU(x *RawTensor) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("ReLU: input tensor is nil")
	}
	result, err := NewRaw(x.shape, x.dtype)
	if err != nil {
		return nil, fmt.Errorf("ReLU: %w", err)
	}

	switch x.dtype {
	case Float32:
		in := x.AsFloat32()
		out := result.AsFloat32()
		for i := range in {
			if in[i] > 0 {
				out[i] = in[i]
			}
		}
	case Float64:
		in := x.AsFloat64()
		out := result.AsFloat64()
		for i := range in {
			if in[i] > 0 {
				out[i] = in[i]
			}
		}
	default:
		return nil, fmt.Errorf("ReLU: unsupported dtype %v", x.dtype)
	}
	return result, nil
}

// Sigmoid applies 1/(1+exp(-x)) element-wise.
func Sigmoid(x *RawTensor) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Sigmoid: input tensor is nil")
	}
	if x.dtype != Float32 {
		return nil, fmt.Errorf("Sigmoid: unsupported dtype %v", x.dtype)
	}
	result, err := NewRaw(x.shape, x.dtype)
	if err != nil {
		return nil, fmt.Errorf("Sigmoid: %w", err)
	}
	in := x.AsFloat32()
	out := result.AsFloat32()
	for i := range in {
		out[i] = float32(1.0 / (1.0 + math.Exp(float64(-in[i]))))
	}
	return result, nil
}

// Tanh applies tanh element-wise.
func Tanh(x *RawTensor) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Tanh: input tensor is nil")
	}
	if x.dtype != Float32 {
		return nil, fmt.Errorf("Tanh: unsupported dtype %v", x.dtype)
	}
	result, err := NewRaw(x.shape, x.dtype)
	if err != nil {
		return nil, fmt.Errorf("Tanh: %w", err)
	}
	in := x.AsFloat32()
	out := result.AsFloat32()
	for i := range in {
		out[i] = float32(math.Tanh(float64(in[i])))
	}
	return result, nil
}

// Softmax applies softmax along dim. Negative dim counts from the end.
// Uses the max-subtraction trick for numerical stability.
func Softmax(x *RawTensor, dim int) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Softmax: input tensor is nil")
	}
	if x.dtype != Float32 {
		return nil, fmt.Errorf("Softmax: unsupported dtype %v", x.dtype)
	}
	if dim < 0 {
		dim += len(x.shape)
	}
	if dim < 0 || dim >= len(x.shape) {
		return nil, fmt.Errorf("Softmax: dim %d out of range for shape %v", dim, x.shape)
	}

	result, err := NewRaw(x.shape, x.dtype)
	if err != nil {
		return nil, fmt.Errorf("Softmax: %w", err)
	}

	// View the tensor as [outer, n, inner] around the softmax axis.
	n := x.shape[dim]
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= x.shape[i]
	}
	for i := dim + 1; i < len(x.shape); i++ {
		inner *= x.shape[i]
	}

	in := x.AsFloat32()
	out := result.AsFloat32()
	for o := 0; o < outer; o++ {
		for in2 := 0; in2 < inner; in2++ {
			base := o*n*inner + in2
			maxVal := in[base]
			for k := 1; k < n; k++ {
				if v := in[base+k*inner]; v > maxVal {
					maxVal = v
				}
			}
			var sum float64
			for k := 0; k < n; k++ {
				e := math.Exp(float64(in[base+k*inner] - maxVal))
				out[base+k*inner] = float32(e)
				sum += e
			}
			for k := 0; k < n; k++ {
				out[base+k*inner] = float32(float64(out[base+k*inner]) / sum)
			}
		}
	}
	return result, nil
}

// binaryFloat32 applies fn element-wise with NumPy-style broadcasting.
func binaryFloat32(name string, a, b *RawTensor, fn func(x, y float32) float32) (*RawTensor, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%s: input tensor is nil", name)
	}
	if a.dtype != Float32 || b.dtype != Float32 {
		return nil, fmt.Errorf("%s: unsupported dtypes %v, %v", name, a.dtype, b.dtype)
	}

	outShape, needsBroadcast, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	result, err := NewRaw(outShape, Float32)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	av, bv := a.AsFloat32(), b.AsFloat32()
	out := result.AsFloat32()

	if !needsBroadcast {
		for i := range out {
			out[i] = fn(av[i], bv[i])
		}
		return result, nil
	}

	aStride := broadcastStrides(a.shape, outShape)
	bStride := broadcastStrides(b.shape, outShape)
	idx := make([]int, len(outShape))
	for i := range out {
		var ai, bi int
		for d := range idx {
			ai += idx[d] * aStride[d]
			bi += idx[d] * bStride[d]
		}
		out[i] = fn(av[ai], bv[bi])

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return result, nil
}

// broadcastStrides maps a (possibly shorter) shape onto out, returning a
// stride per out dimension; broadcast dimensions get stride 0.
func broadcastStrides(shape, out Shape) []int {
	strides := shape.ComputeStrides()
	mapped := make([]int, len(out))
	offset := len(out) - len(shape)
	for d := range out {
		src := d - offset
		if src < 0 || shape[src] == 1 {
			mapped[d] = 0
		} else {
			mapped[d] = strides[src]
		}
	}
	return mapped
}

// Add performs element-wise addition with broadcasting.
func Add(a, b *RawTensor) (*RawTensor, error) {
	return binaryFloat32("Add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func Sub(a, b *RawTensor) (*RawTensor, error) {
	return binaryFloat32("Sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func Mul(a, b *RawTensor) (*RawTensor, error) {
	return binaryFloat32("Mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func Div(a, b *RawTensor) (*RawTensor, error) {
	return binaryFloat32("Div", a, b, func(x, y float32) float32 { return x / y })
}

// Scale multiplies every element by a scalar.
func Scale(x *RawTensor, scalar float32) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Scale: input tensor is nil")
	}
	if x.dtype != Float32 {
		return nil, fmt.Errorf("Scale: unsupported dtype %v", x.dtype)
	}
	result, err := NewRaw(x.shape, x.dtype)
	if err != nil {
		return nil, fmt.Errorf("Scale: %w", err)
	}
	in := x.AsFloat32()
	out := result.AsFloat32()
	for i := range in {
		out[i] = in[i] * scalar
	}
	return result, nil
}

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
func MatMul(a, b *RawTensor) (*RawTensor, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("MatMul: input tensor is nil")
	}
	if a.dtype != Float32 || b.dtype != Float32 {
		return nil, fmt.Errorf("MatMul: unsupported dtypes %v, %v", a.dtype, b.dtype)
	}
	if len(a.shape) != 2 || len(b.shape) != 2 {
		return nil, fmt.Errorf("MatMul: expected 2D tensors, got %v and %v", a.shape, b.shape)
	}
	m, k := a.shape[0], a.shape[1]
	k2, n := b.shape[0], b.shape[1]
	if k != k2 {
		return nil, fmt.Errorf("MatMul: inner dimensions mismatch: %v vs %v", a.shape, b.shape)
	}

	result, err := NewRaw(Shape{m, n}, Float32)
	if err != nil {
		return nil, fmt.Errorf("MatMul: %w", err)
	}
	av, bv := a.AsFloat32(), b.AsFloat32()
	out := result.AsFloat32()
	for i := 0; i < m; i++ {
		for kk := 0; kk < k; kk++ {
			aik := av[i*k+kk]
			if aik == 0 {
				continue
			}
			row := bv[kk*n : kk*n+n]
			dst := out[i*n : i*n+n]
			for j := range row {
				dst[j] += aik * row[j]
			}
		}
	}
	return result, nil
}

// FC computes a fully connected layer: x (N, K) @ w (M, K) transposed,
// plus bias (M) if non-nil. Result is (N, M).
func FC(x, w, bias *RawTensor) (*RawTensor, error) {
	if x == nil || w == nil {
		return nil, fmt.Errorf("FC: input tensor is nil")
	}
	if x.dtype != Float32 || w.dtype != Float32 {
		return nil, fmt.Errorf("FC: unsupported dtypes %v, %v", x.dtype, w.dtype)
	}
	if len(x.shape) != 2 || len(w.shape) != 2 {
		return nil, fmt.Errorf("FC: expected 2D input and weight, got %v and %v", x.shape, w.shape)
	}
	n, k := x.shape[0], x.shape[1]
	m, k2 := w.shape[0], w.shape[1]
	if k != k2 {
		return nil, fmt.Errorf("FC: input size %d does not match weight inner size %d", k, k2)
	}
	if bias != nil && !bias.shape.Equal(Shape{m}) {
		return nil, fmt.Errorf("FC: bias shape %v does not match output size %d", bias.shape, m)
	}

	result, err := NewRaw(Shape{n, m}, Float32)
	if err != nil {
		return nil, fmt.Errorf("FC: %w", err)
	}
	xv, wv := x.AsFloat32(), w.AsFloat32()
	out := result.AsFloat32()
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			var sum float32
			xrow := xv[i*k : i*k+k]
			wrow := wv[j*k : j*k+k]
			for kk := range xrow {
				sum += xrow[kk] * wrow[kk]
			}
			out[i*m+j] = sum
		}
	}
	if bias != nil {
		bv := bias.AsFloat32()
		for i := 0; i < n; i++ {
			dst := out[i*m : i*m+m]
			for j := range dst {
				dst[j] += bv[j]
			}
		}
	}
	return result, nil
}

// Conv2D performs 2D convolution with square stride and zero padding.
//
// Input:  [N, C, H, W]
// Kernel: [M, C, kH, kW]
// Bias:   [M] or nil
// Output: [N, M, outH, outW] with out = (in + 2*pad - k)/stride + 1.
func Conv2D(input, kernel, bias *RawTensor, stride, pad int) (*RawTensor, error) {
	if input == nil || kernel == nil {
		return nil, fmt.Errorf("Conv2D: input tensor is nil")
	}
	if input.dtype != Float32 || kernel.dtype != Float32 {
		return nil, fmt.Errorf("Conv2D: unsupported dtypes %v, %v", input.dtype, kernel.dtype)
	}
	if len(input.shape) != 4 {
		return nil, fmt.Errorf("Conv2D: expected 4D input [N,C,H,W], got %v", input.shape)
	}
	if len(kernel.shape) != 4 {
		return nil, fmt.Errorf("Conv2D: expected 4D kernel [M,C,kH,kW], got %v", kernel.shape)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("Conv2D: stride must be positive, got %d", stride)
	}
	if pad < 0 {
		return nil, fmt.Errorf("Conv2D: padding must be non-negative, got %d", pad)
	}

	n, c, h, w := input.shape[0], input.shape[1], input.shape[2], input.shape[3]
	m, kc, kh, kw := kernel.shape[0], kernel.shape[1], kernel.shape[2], kernel.shape[3]
	if c != kc {
		return nil, fmt.Errorf("Conv2D: input channels %d do not match kernel channels %d", c, kc)
	}
	outH := (h+2*pad-kh)/stride + 1
	outW := (w+2*pad-kw)/stride + 1
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("Conv2D: kernel %dx%d does not fit input %dx%d with pad %d", kh, kw, h, w, pad)
	}
	if bias != nil && !bias.Shape().Equal(Shape{m}) {
		return nil, fmt.Errorf("Conv2D: bias shape %v does not match %d filters", bias.shape, m)
	}

	result, err := NewRaw(Shape{n, m, outH, outW}, Float32)
	if err != nil {
		return nil, fmt.Errorf("Conv2D: %w", err)
	}
	in := input.AsFloat32()
	kv := kernel.AsFloat32()
	out := result.AsFloat32()
	var bv []float32
	if bias != nil {
		bv = bias.AsFloat32()
	}

	for ni := 0; ni < n; ni++ {
		for mi := 0; mi < m; mi++ {
			var b float32
			if bv != nil {
				b = bv[mi]
			}
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					sum := b
					for ci := 0; ci < c; ci++ {
						for ky := 0; ky < kh; ky++ {
							iy := oy*stride + ky - pad
							if iy < 0 || iy >= h {
								continue
							}
							for kx := 0; kx < kw; kx++ {
								ix := ox*stride + kx - pad
								if ix < 0 || ix >= w {
									continue
								}
								sum += in[((ni*c+ci)*h+iy)*w+ix] * kv[((mi*c+ci)*kh+ky)*kw+kx]
							}
						}
					}
					out[((ni*m+mi)*outH+oy)*outW+ox] = sum
				}
			}
		}
	}
	return result, nil
}

// MaxPool2D performs 2D max pooling over non-padded windows.
//
// Input:  [N, C, H, W]
// Output: [N, C, outH, outW] with out = (in - k)/stride + 1.
func MaxPool2D(input *RawTensor, kernelSize, stride int) (*RawTensor, error) {
	if input == nil {
		return nil, fmt.Errorf("MaxPool2D: input tensor is nil")
	}
	if input.dtype != Float32 {
		return nil, fmt.Errorf("MaxPool2D: unsupported dtype %v", input.dtype)
	}
	if len(input.shape) != 4 {
		return nil, fmt.Errorf("MaxPool2D: expected 4D input [N,C,H,W], got %v", input.shape)
	}
	if kernelSize <= 0 || stride <= 0 {
		return nil, fmt.Errorf("MaxPool2D: kernel %d and stride %d must be positive", kernelSize, stride)
	}

	n, c, h, w := input.shape[0], input.shape[1], input.shape[2], input.shape[3]
	outH := (h-kernelSize)/stride + 1
	outW := (w-kernelSize)/stride + 1
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("MaxPool2D: window %d does not fit input %dx%d", kernelSize, h, w)
	}

	result, err := NewRaw(Shape{n, c, outH, outW}, Float32)
	if err != nil {
		return nil, fmt.Errorf("MaxPool2D: %w", err)
	}
	in := input.AsFloat32()
	out := result.AsFloat32()

	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < c; ci++ {
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					maxVal := float32(math.Inf(-1))
					for ky := 0; ky < kernelSize; ky++ {
						iy := oy*stride + ky
						for kx := 0; kx < kernelSize; kx++ {
							ix := ox*stride + kx
							if v := in[((ni*c+ci)*h+iy)*w+ix]; v > maxVal {
								maxVal = v
							}
						}
					}
					out[((ni*c+ci)*outH+oy)*outW+ox] = maxVal
				}
			}
		}
	}
	return result, nil
}

// Argmax returns the index of the maximum value along dim as an Int32
// tensor; the reduced dimension is removed from the shape. Negative dim
// counts from the end. Ties resolve to the lowest index.
func Argmax(x *RawTensor, dim int) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Argmax: input tensor is nil")
	}
	if x.dtype != Float32 {
		return nil, fmt.Errorf("Argmax: unsupported dtype %v", x.dtype)
	}
	if dim < 0 {
		dim += len(x.shape)
	}
	if dim < 0 || dim >= len(x.shape) {
		return nil, fmt.Errorf("Argmax: dim %d out of range for shape %v", dim, x.shape)
	}

	outShape := make(Shape, 0, len(x.shape)-1)
	for i, size := range x.shape {
		if i != dim {
			outShape = append(outShape, size)
		}
	}

	result, err := NewRaw(outShape, Int32)
	if err != nil {
		return nil, fmt.Errorf("Argmax: %w", err)
	}

	// View the tensor as [outer, n, inner] around the reduced axis.
	n := x.shape[dim]
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= x.shape[i]
	}
	for i := dim + 1; i < len(x.shape); i++ {
		inner *= x.shape[i]
	}

	in := x.AsFloat32()
	out := result.AsInt32()
	for o := 0; o < outer; o++ {
		for in2 := 0; in2 < inner; in2++ {
			base := o*n*inner + in2
			best := int32(0)
			bestVal := in[base]
			for k := 1; k < n; k++ {
				if v := in[base+k*inner]; v > bestVal {
					bestVal = v
					best = int32(k)
				}
			}
			out[o*inner+in2] = best
		}
	}
	return result, nil
}

// Sum returns the total sum of all elements as a scalar-like [1] tensor.
func Sum(x *RawTensor) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Sum: input tensor is nil")
	}
	if x.dtype != Float32 {
		return nil, fmt.Errorf("Sum: unsupported dtype %v", x.dtype)
	}
	result, err := NewRaw(Shape{1}, Float32)
	if err != nil {
		return nil, fmt.Errorf("Sum: %w", err)
	}
	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	result.AsFloat32()[0] = sum
	return result, nil
}

// Reshape returns a view with a new shape. A single -1 dimension is
// inferred from the element count.
func Reshape(x *RawTensor, newShape Shape) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Reshape: input tensor is nil")
	}
	resolved := newShape.Clone()
	infer := -1
	known := 1
	for i, dim := range resolved {
		switch {
		case dim == -1:
			if infer >= 0 {
				return nil, fmt.Errorf("Reshape: at most one dimension may be -1, got %v", newShape)
			}
			infer = i
		case dim <= 0:
			return nil, fmt.Errorf("Reshape: invalid dimension %d in %v", dim, newShape)
		default:
			known *= dim
		}
	}
	if infer >= 0 {
		if known == 0 || x.NumElements()%known != 0 {
			return nil, fmt.Errorf("Reshape: cannot infer dimension for %v from %v", newShape, x.shape)
		}
		resolved[infer] = x.NumElements() / known
	}
	return x.WithShape(resolved)
}

// Flatten collapses all dimensions after the first into one: [N, ...] -> [N, D].
func Flatten(x *RawTensor) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Flatten: input tensor is nil")
	}
	if len(x.shape) < 2 {
		return nil, fmt.Errorf("Flatten: expected at least 2D input, got %v", x.shape)
	}
	return x.WithShape(Shape{x.shape[0], x.NumElements() / x.shape[0]})
}

// Transpose2D swaps the two dimensions of a 2D tensor.
func Transpose2D(x *RawTensor) (*RawTensor, error) {
	if x == nil {
		return nil, fmt.Errorf("Transpose2D: input tensor is nil")
	}
	if x.dtype != Float32 {
		return nil, fmt.Errorf("Transpose2D: unsupported dtype %v", x.dtype)
	}
	if len(x.shape) != 2 {
		return nil, fmt.Errorf("Transpose2D: expected 2D tensor, got %v", x.shape)
	}
	rows, cols := x.shape[0], x.shape[1]
	result, err := NewRaw(Shape{cols, rows}, Float32)
	if err != nil {
		return nil, fmt.Errorf("Transpose2D: %w", err)
	}
	in := x.AsFloat32()
	out := result.AsFloat32()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = in[i*cols+j]
		}
	}
	return result, nil
}
