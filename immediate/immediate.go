// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package immediate provides the public API for the eager-execution side
// channel over a deferred graph builder.
//
// While a Session is active, every operator declared through its builder
// also runs synchronously against a private auxiliary workspace, so
// intermediate tensors and shapes can be inspected while the net is being
// written. The deferred net and any primary workspace are never touched,
// and stopping the session discards the auxiliary store.
//
// Example:
//
//	b := graph.NewBuilder("predict")
//	sess := immediate.New(b, ops.NewRegistry())
//	if err := sess.Start(false); err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Stop()
//
//	sess.Feed("X", x)
//	b.AddOp("Relu", []string{"X"}, []string{"Y"})
//	y, err := sess.Fetch("Y") // available immediately
//
// Immediate mode recomputes every declaration and is meant for debugging,
// not production execution.
package immediate

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/immediate"
	"github.com/ember-ml/ember/internal/ops"
)

// State-contract violations.
var (
	// ErrAlreadyActive is returned by Start on an active session.
	ErrAlreadyActive = immediate.ErrAlreadyActive
	// ErrNotActive is returned by operations that require an active session.
	ErrNotActive = immediate.ErrNotActive
)

// NotFoundError reports a fetch of a name the auxiliary store does not hold.
type NotFoundError = immediate.NotFoundError

// MissingInputError reports an eagerly executed operator with an
// unresolved input name.
type MissingInputError = immediate.MissingInputError

// Session is an immediate-execution context bound to one builder.
type Session = immediate.Session

// Option configures a Session.
type Option = immediate.Option

// WithLogger sets the logger for advisory and debug output.
func WithLogger(logger *zap.Logger) Option {
	return immediate.WithLogger(logger)
}

// WithRand sets the random source used by stochastic fillers during eager
// execution.
func WithRand(rng *rand.Rand) Option {
	return immediate.WithRand(rng)
}

// New creates an inactive session over the given builder and registry.
func New(builder *graph.Builder, registry *ops.Registry, opts ...Option) *Session {
	return immediate.New(builder, registry, opts...)
}
