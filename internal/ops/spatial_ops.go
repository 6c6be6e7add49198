package ops

import (
	"fmt"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/tensor"
)

// registerSpatialOps adds convolution and pooling operators to the registry.
func (r *Registry) registerSpatialOps() {
	r.Register("Conv", handleConv)
	r.Register("MaxPool", handleMaxPool)
}

// handleConv runs 2D convolution. Inputs: (x, kernel) or (x, kernel, bias).
// Args: stride (default 1), pad (default 0).
func handleConv(_ *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 2 && len(inputs) != 3 {
		return nil, fmt.Errorf("Conv requires 2 or 3 inputs (x, kernel[, bias]), got %d", len(inputs))
	}
	var bias *tensor.RawTensor
	if len(inputs) == 3 {
		bias = inputs[2]
	}
	stride := int(op.ArgInt("stride", 1))
	pad := int(op.ArgInt("pad", 0))
	result, err := tensor.Conv2D(inputs[0], inputs[1], bias, stride, pad)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}

// handleMaxPool runs 2D max pooling. Args: kernel (required), stride
// (default: kernel, non-overlapping windows).
func handleMaxPool(_ *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("MaxPool requires 1 input, got %d", len(inputs))
	}
	kernel := int(op.ArgInt("kernel", 0))
	if kernel <= 0 {
		return nil, fmt.Errorf("MaxPool requires a positive kernel arg, got %d", kernel)
	}
	stride := int(op.ArgInt("stride", int64(kernel)))
	result, err := tensor.MaxPool2D(inputs[0], kernel, stride)
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}
