package ops

import (
	"fmt"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/tensor"
)

// registerActivations adds activation operators to the registry.
func (r *Registry) registerActivations() {
	r.Register("Relu", unaryKernel("Relu", tensor.ReLU))
	r.Register("Sigmoid", unaryKernel("Sigmoid", tensor.Sigmoid))
	r.Register("Tanh", unaryKernel("Tanh", tensor.Tanh))
	r.Register("Softmax", handleSoftmax)
}

// unaryKernel wraps a one-input tensor function as a kernel.
func unaryKernel(name string, fn func(x *tensor.RawTensor) (*tensor.RawTensor, error)) Kernel {
	return func(_ *Context, _ *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
		if len(inputs) != 1 {
			return nil, fmt.Errorf("%s requires 1 input, got %d", name, len(inputs))
		}
		result, err := fn(inputs[0])
		if err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{result}, nil
	}
}

func handleSoftmax(_ *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("Softmax requires 1 input, got %d", len(inputs))
	}
	axis := int(op.ArgInt("axis", -1))
	result, err := tensor.Softmax(inputs[0], axis)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}
