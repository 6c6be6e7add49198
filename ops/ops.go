// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops provides the public API for the operator registry — the
// execution engine mapping operator type names to kernels.
//
// A fresh registry carries the builtin operators (arithmetic, activations,
// convolution and pooling, shape manipulation, and parameter fillers);
// custom kernels can be registered alongside them:
//
//	reg := ops.NewRegistry()
//	reg.Register("Negate", func(ctx *ops.Context, op *graph.OperatorDef,
//	    inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) { ... })
package ops

import (
	"github.com/ember-ml/ember/internal/ops"
)

// Kernel executes one operator: resolved inputs in, one tensor per
// declared output out.
type Kernel = ops.Kernel

// Context carries cross-cutting collaborators (random source, logger)
// into kernels.
type Context = ops.Context

// Registry maps operator type names to kernels.
type Registry = ops.Registry

// NewRegistry creates a registry with all builtin operators registered.
func NewRegistry() *Registry {
	return ops.NewRegistry()
}
