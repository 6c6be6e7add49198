package ops

import (
	"fmt"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/tensor"
)

// registerShapeOps adds shape-manipulation operators to the registry.
func (r *Registry) registerShapeOps() {
	r.Register("Reshape", handleReshape)
	r.Register("Flatten", unaryKernel("Flatten", tensor.Flatten))
	r.Register("Transpose", unaryKernel("Transpose", tensor.Transpose2D))
}

// handleReshape reshapes the input. Args: shape (required, may contain one -1).
func handleReshape(_ *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("Reshape requires 1 input, got %d", len(inputs))
	}
	dims := op.ArgInts("shape")
	if len(dims) == 0 {
		return nil, fmt.Errorf("Reshape requires a shape arg")
	}
	shape := make(tensor.Shape, len(dims))
	for i, d := range dims {
		shape[i] = int(d)
	}
	result, err := tensor.Reshape(inputs[0], shape)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}
