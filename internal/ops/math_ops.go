package ops

import (
	"fmt"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/tensor"
)

// registerMathOps adds arithmetic operators to the registry.
func (r *Registry) registerMathOps() {
	r.Register("Add", binaryKernel("Add", tensor.Add))
	r.Register("Sub", binaryKernel("Sub", tensor.Sub))
	r.Register("Mul", binaryKernel("Mul", tensor.Mul))
	r.Register("Div", binaryKernel("Div", tensor.Div))
	r.Register("MatMul", binaryKernel("MatMul", tensor.MatMul))
	r.Register("FC", handleFC)
	r.Register("Sum", handleSum)
	r.Register("Scale", handleScale)
	r.Register("Argmax", handleArgmax)
}

// binaryKernel wraps a two-input tensor function as a kernel.
func binaryKernel(name string, fn func(a, b *tensor.RawTensor) (*tensor.RawTensor, error)) Kernel {
	return func(_ *Context, _ *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
		if len(inputs) != 2 {
			return nil, fmt.Errorf("%s requires 2 inputs, got %d", name, len(inputs))
		}
		result, err := fn(inputs[0], inputs[1])
		if err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{result}, nil
	}
}

// handleFC computes x @ Wᵀ + b. Inputs: (x, weight) or (x, weight, bias).
func handleFC(_ *Context, _ *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 2 && len(inputs) != 3 {
		return nil, fmt.Errorf("FC requires 2 or 3 inputs (x, weight[, bias]), got %d", len(inputs))
	}
	var bias *tensor.RawTensor
	if len(inputs) == 3 {
		bias = inputs[2]
	}
	result, err := tensor.FC(inputs[0], inputs[1], bias)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}

func handleSum(_ *Context, _ *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("Sum requires 1 input, got %d", len(inputs))
	}
	result, err := tensor.Sum(inputs[0])
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}

// handleArgmax reduces along the axis arg (default -1, the last axis).
func handleArgmax(_ *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("Argmax requires 1 input, got %d", len(inputs))
	}
	axis := int(op.ArgInt("axis", -1))
	result, err := tensor.Argmax(inputs[0], axis)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}

func handleScale(_ *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("Scale requires 1 input, got %d", len(inputs))
	}
	scale := op.ArgFloat("scale", 1.0)
	result, err := tensor.Scale(inputs[0], scale)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}
