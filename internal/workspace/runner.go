package workspace

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/ops"
	"github.com/ember-ml/ember/internal/tensor"
)

// RunOperator resolves an operator's inputs against the workspace, executes
// it through the registry, and stores the outputs under their declared
// names.
//
// Execution is atomic: every input is resolved before the kernel runs, and
// outputs are written only after the kernel succeeds. A partially
// resolvable operator fails with a *MissingInputError naming the first
// unresolved input and leaves the workspace unchanged.
func (ws *Workspace) RunOperator(op *graph.OperatorDef, reg *ops.Registry, ctx *ops.Context) error {
	inputs, err := ws.resolveInputs(op)
	if err != nil {
		return err
	}

	outputs, err := reg.Execute(ctx, op, inputs)
	if err != nil {
		return fmt.Errorf("running operator %s: %w", op.Type, err)
	}

	for i, name := range op.Outputs {
		ws.Feed(name, outputs[i])
	}

	ctx.Log().Debug("ran operator",
		zap.String("type", op.Type),
		zap.Strings("inputs", op.Inputs),
		zap.Strings("outputs", op.Outputs))
	return nil
}

// RunNet executes every operator of a net in declaration order.
// The first failure aborts the run; operators before it keep their outputs.
func (ws *Workspace) RunNet(net *graph.NetDef, reg *ops.Registry, ctx *ops.Context) error {
	for i, op := range net.Ops {
		if err := ws.RunOperator(op, reg, ctx); err != nil {
			return fmt.Errorf("net %q: op %d: %w", net.Name, i, err)
		}
	}
	return nil
}

// resolveInputs gathers all input tensors, failing on the first absent name.
func (ws *Workspace) resolveInputs(op *graph.OperatorDef) ([]*tensor.RawTensor, error) {
	inputs := make([]*tensor.RawTensor, len(op.Inputs))
	for i, name := range op.Inputs {
		t, ok := ws.blobs[name]
		if !ok {
			return nil, &MissingInputError{Op: op.Type, Input: name}
		}
		inputs[i] = t
	}
	return inputs, nil
}
