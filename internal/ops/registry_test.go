package ops

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/tensor"
)

func fromFloat32s(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat32s(data, shape)
	require.NoError(t, err)
	return raw
}

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, opType := range []string{
		"Add", "Sub", "Mul", "Div", "MatMul", "FC", "Sum", "Scale", "Argmax",
		"Relu", "Sigmoid", "Tanh", "Softmax",
		"Conv", "MaxPool",
		"Reshape", "Flatten", "Transpose",
		"ConstantFill", "UniformFill", "GaussianFill", "XavierFill",
	} {
		assert.True(t, r.Has(opType), "builtin %s not registered", opType)
	}

	kernels := r.Kernels()
	assert.True(t, sort.StringsAreSorted(kernels), "Kernels() must be sorted")
	assert.GreaterOrEqual(t, len(kernels), 22)
}

func TestRegistryUnknownOperator(t *testing.T) {
	r := NewRegistry()
	op := &graph.OperatorDef{Type: "DoesNotExist", Outputs: []string{"Y"}}

	_, err := r.Execute(nil, op, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DoesNotExist")
}

func TestRegistryOutputArity(t *testing.T) {
	r := NewRegistry()
	// Relu declares two outputs but its kernel produces one.
	op := &graph.OperatorDef{Type: "Relu", Inputs: []string{"X"}, Outputs: []string{"Y", "Z"}}
	x := fromFloat32s(t, []float32{1, -1}, tensor.Shape{2})

	_, err := r.Execute(nil, op, []*tensor.RawTensor{x})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outputs")
}

func TestReluKernel(t *testing.T) {
	r := NewRegistry()
	op := &graph.OperatorDef{Type: "Relu", Inputs: []string{"X"}, Outputs: []string{"Y"}}
	x := fromFloat32s(t, []float32{1, -1, 2, -2}, tensor.Shape{2, 2})

	outputs, err := r.Execute(nil, op, []*tensor.RawTensor{x})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, []float32{1, 0, 2, 0}, outputs[0].AsFloat32())

	_, err = r.Execute(nil, op, nil)
	assert.Error(t, err, "Relu with no inputs must fail")
}

func TestFCKernel(t *testing.T) {
	r := NewRegistry()
	op := &graph.OperatorDef{Type: "FC", Inputs: []string{"X", "W", "b"}, Outputs: []string{"Y"}}
	x := fromFloat32s(t, []float32{1, 2}, tensor.Shape{1, 2})
	w := fromFloat32s(t, []float32{3, 4}, tensor.Shape{1, 2})
	b := fromFloat32s(t, []float32{5}, tensor.Shape{1})

	outputs, err := r.Execute(nil, op, []*tensor.RawTensor{x, w, b})
	require.NoError(t, err)
	assert.Equal(t, []float32{16}, outputs[0].AsFloat32()) // 1*3 + 2*4 + 5
}

func TestScaleKernel(t *testing.T) {
	r := NewRegistry()
	op := &graph.OperatorDef{
		Type: "Scale", Inputs: []string{"X"}, Outputs: []string{"Y"},
		Args: []graph.Argument{graph.FloatArg("scale", 2)},
	}
	x := fromFloat32s(t, []float32{1, 2, 3}, tensor.Shape{3})

	outputs, err := r.Execute(nil, op, []*tensor.RawTensor{x})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6}, outputs[0].AsFloat32())
}

func TestArgmaxKernel(t *testing.T) {
	r := NewRegistry()
	x := fromFloat32s(t, []float32{1, 5, 3, 9, 2, 9}, tensor.Shape{2, 3})

	// Default axis is the last one.
	op := &graph.OperatorDef{Type: "Argmax", Inputs: []string{"X"}, Outputs: []string{"Y"}}
	outputs, err := r.Execute(nil, op, []*tensor.RawTensor{x})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2}, outputs[0].Shape())
	assert.Equal(t, []int32{1, 0}, outputs[0].AsInt32())

	op = &graph.OperatorDef{
		Type: "Argmax", Inputs: []string{"X"}, Outputs: []string{"Y"},
		Args: []graph.Argument{graph.IntArg("axis", 0)},
	}
	outputs, err = r.Execute(nil, op, []*tensor.RawTensor{x})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 0, 1}, outputs[0].AsInt32())
}

func TestConvKernelArgs(t *testing.T) {
	r := NewRegistry()
	x := fromFloat32s(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	k := fromFloat32s(t, []float32{1}, tensor.Shape{1, 1, 1, 1})

	op := &graph.OperatorDef{Type: "Conv", Inputs: []string{"X", "W"}, Outputs: []string{"Y"}}
	outputs, err := r.Execute(nil, op, []*tensor.RawTensor{x, k})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, outputs[0].Shape())

	// stride=2 halves the spatial dims.
	op = &graph.OperatorDef{
		Type: "Conv", Inputs: []string{"X", "W"}, Outputs: []string{"Y"},
		Args: []graph.Argument{graph.IntArg("stride", 2)},
	}
	outputs, err = r.Execute(nil, op, []*tensor.RawTensor{x, k})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 1, 1}, outputs[0].Shape())
}

func TestMaxPoolKernelRequiresKernelArg(t *testing.T) {
	r := NewRegistry()
	x := fromFloat32s(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
	op := &graph.OperatorDef{Type: "MaxPool", Inputs: []string{"X"}, Outputs: []string{"Y"}}

	_, err := r.Execute(nil, op, []*tensor.RawTensor{x})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel")
}

func TestFillers(t *testing.T) {
	r := NewRegistry()
	ctx := &Context{Rand: rand.New(rand.NewSource(1))}

	op := &graph.OperatorDef{
		Type: "ConstantFill", Outputs: []string{"b"},
		Args: []graph.Argument{
			graph.IntsArg("shape", 2, 3),
			graph.FloatArg("value", 1.5),
		},
	}
	outputs, err := r.Execute(ctx, op, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, outputs[0].Shape())
	for _, v := range outputs[0].AsFloat32() {
		assert.Equal(t, float32(1.5), v)
	}

	op = &graph.OperatorDef{
		Type: "XavierFill", Outputs: []string{"w"},
		Args: []graph.Argument{graph.IntsArg("shape", 20, 1, 5, 5)},
	}
	outputs, err = r.Execute(ctx, op, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{20, 1, 5, 5}, outputs[0].Shape())

	// Fillers reject inputs and require a shape.
	x := fromFloat32s(t, []float32{1}, tensor.Shape{1})
	_, err = r.Execute(ctx, op, []*tensor.RawTensor{x})
	assert.Error(t, err)

	op = &graph.OperatorDef{Type: "GaussianFill", Outputs: []string{"w"}}
	_, err = r.Execute(ctx, op, nil)
	assert.Error(t, err)
}

func TestFillersAreReproducible(t *testing.T) {
	r := NewRegistry()
	op := &graph.OperatorDef{
		Type: "UniformFill", Outputs: []string{"w"},
		Args: []graph.Argument{graph.IntsArg("shape", 4)},
	}

	a, err := r.Execute(&Context{Rand: rand.New(rand.NewSource(7))}, op, nil)
	require.NoError(t, err)
	b, err := r.Execute(&Context{Rand: rand.New(rand.NewSource(7))}, op, nil)
	require.NoError(t, err)
	assert.Equal(t, a[0].AsFloat32(), b[0].AsFloat32())
}

func TestRegisterCustomKernel(t *testing.T) {
	r := NewRegistry()
	r.Register("Negate", func(_ *Context, _ *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
		out, err := tensor.Scale(inputs[0], -1)
		if err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{out}, nil
	})

	op := &graph.OperatorDef{Type: "Negate", Inputs: []string{"X"}, Outputs: []string{"Y"}}
	x := fromFloat32s(t, []float32{1, -2}, tensor.Shape{2})
	outputs, err := r.Execute(nil, op, []*tensor.RawTensor{x})
	require.NoError(t, err)
	assert.Equal(t, []float32{-1, 2}, outputs[0].AsFloat32())
}
