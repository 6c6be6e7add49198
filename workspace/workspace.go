// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package workspace provides the public API for named tensor stores and
// deferred net execution.
//
// A Workspace maps tensor names to tensors. Nets recorded by a
// graph.Builder execute against it explicitly:
//
//	ws := workspace.New()
//	ws.Feed("data", batch)
//	err := ws.RunNet(net, registry, &ops.Context{})
package workspace

import (
	"github.com/ember-ml/ember/internal/workspace"
)

// Workspace is a mapping from tensor names to tensors.
type Workspace = workspace.Workspace

// NotFoundError reports a fetch of a tensor name the store does not hold.
type NotFoundError = workspace.NotFoundError

// MissingInputError reports an operator whose input name could not be
// resolved against the store.
type MissingInputError = workspace.MissingInputError

// New creates an empty workspace.
func New() *Workspace {
	return workspace.New()
}
