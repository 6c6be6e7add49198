package ops

import (
	"fmt"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/tensor"
)

// registerFillers adds parameter-initialization operators to the registry.
// Fillers take no inputs: the output shape comes from the shape arg. They
// are the building blocks of parameter-init nets.
func (r *Registry) registerFillers() {
	r.Register("ConstantFill", handleConstantFill)
	r.Register("UniformFill", handleUniformFill)
	r.Register("GaussianFill", handleGaussianFill)
	r.Register("XavierFill", handleXavierFill)
}

// fillerShape extracts and validates the shape arg common to all fillers.
func fillerShape(op *graph.OperatorDef, inputs []*tensor.RawTensor) (tensor.Shape, error) {
	if len(inputs) != 0 {
		return nil, fmt.Errorf("%s takes no inputs, got %d", op.Type, len(inputs))
	}
	dims := op.ArgInts("shape")
	if len(dims) == 0 {
		return nil, fmt.Errorf("%s requires a shape arg", op.Type)
	}
	shape := make(tensor.Shape, len(dims))
	for i, d := range dims {
		shape[i] = int(d)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op.Type, err)
	}
	return shape, nil
}

// handleConstantFill produces a tensor filled with the value arg (default 0).
func handleConstantFill(_ *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	shape, err := fillerShape(op, inputs)
	if err != nil {
		return nil, err
	}
	result, err := tensor.Full(shape, op.ArgFloat("value", 0))
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}

// handleUniformFill draws from U(min, max); defaults are [-1, 1).
func handleUniformFill(ctx *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	shape, err := fillerShape(op, inputs)
	if err != nil {
		return nil, err
	}
	lo := op.ArgFloat("min", -1)
	hi := op.ArgFloat("max", 1)
	if hi < lo {
		return nil, fmt.Errorf("UniformFill: max %v is below min %v", hi, lo)
	}
	result, err := tensor.RandFloat32(shape, lo, hi, ctx.RNG())
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}

// handleGaussianFill draws from N(mean, std); defaults are N(0, 1).
func handleGaussianFill(ctx *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	shape, err := fillerShape(op, inputs)
	if err != nil {
		return nil, err
	}
	mean := op.ArgFloat("mean", 0)
	std := op.ArgFloat("std", 1)
	if std < 0 {
		return nil, fmt.Errorf("GaussianFill: std must be non-negative, got %v", std)
	}
	result, err := tensor.RandnFloat32(shape, mean, std, ctx.RNG())
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}

// handleXavierFill draws from the Xavier/Glorot uniform distribution.
// Fan-in is the product of all dimensions after the first.
func handleXavierFill(ctx *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	shape, err := fillerShape(op, inputs)
	if err != nil {
		return nil, err
	}
	fanIn := 1
	for _, dim := range shape[1:] {
		fanIn *= dim
	}
	result, err := tensor.XavierFloat32(shape, fanIn, ctx.RNG())
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{result}, nil
}
