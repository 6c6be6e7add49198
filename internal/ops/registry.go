// Package ops implements the operator registry: the mapping from operator
// type names to the kernels that execute them. The registry is the
// execution engine behind both deferred net runs and immediate-mode
// declarations; it holds no tensor state of its own.
package ops

import (
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/tensor"
)

// Kernel executes one operator: it maps resolved input tensors to output
// tensors, one per declared output name, deterministically for fixed inputs
// and context.
type Kernel func(ctx *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error)

// Context carries cross-cutting collaborators into kernels.
type Context struct {
	// Rand seeds stochastic fillers. Nil means an unseeded default source.
	Rand *rand.Rand
	// Logger receives per-kernel debug logging. Nil means no logging.
	Logger *zap.Logger
}

// RNG returns the context's random source, falling back to a fixed-seed
// source so filler output stays reproducible by default.
func (c *Context) RNG() *rand.Rand {
	if c != nil && c.Rand != nil {
		return c.Rand
	}
	return rand.New(rand.NewSource(0))
}

// Log returns the context's logger, falling back to a no-op logger.
func (c *Context) Log() *zap.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// Registry maps operator type names to kernels.
type Registry struct {
	kernels map[string]Kernel
}

// NewRegistry creates a registry with all builtin operators registered.
func NewRegistry() *Registry {
	r := &Registry{
		kernels: make(map[string]Kernel),
	}
	r.registerMathOps()
	r.registerActivations()
	r.registerSpatialOps()
	r.registerShapeOps()
	r.registerFillers()
	return r
}

// Register adds or replaces a kernel for an operator type.
func (r *Registry) Register(opType string, kernel Kernel) {
	r.kernels[opType] = kernel
}

// Get returns the kernel for an operator type.
func (r *Registry) Get(opType string) (Kernel, bool) {
	k, ok := r.kernels[opType]
	return k, ok
}

// Has reports whether an operator type is registered.
func (r *Registry) Has(opType string) bool {
	_, ok := r.kernels[opType]
	return ok
}

// Execute runs an operator with the given inputs. The kernel must produce
// exactly one tensor per declared output name.
func (r *Registry) Execute(ctx *Context, op *graph.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	kernel, ok := r.kernels[op.Type]
	if !ok {
		return nil, fmt.Errorf("ops: unsupported operator type %q", op.Type)
	}
	outputs, err := kernel(ctx, op, inputs)
	if err != nil {
		return nil, err
	}
	if len(outputs) != len(op.Outputs) {
		return nil, fmt.Errorf("ops: %s produced %d outputs, declared %d", op.Type, len(outputs), len(op.Outputs))
	}
	return outputs, nil
}

// Kernels returns the sorted list of registered operator types.
func (r *Registry) Kernels() []string {
	types := make([]string, 0, len(r.kernels))
	for opType := range r.kernels {
		types = append(types, opType)
	}
	sort.Strings(types)
	return types
}
