// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for building deferred computation
// graphs.
//
// A Builder records operator declarations into a NetDef without executing
// anything; a workspace runs the finished net later. Observers attached to
// a Builder see every declaration as it happens — the immediate package
// uses this hook to mirror declarations eagerly.
//
// Example:
//
//	b := graph.NewBuilder("predict")
//	b.AddOp("Relu", []string{"X"}, []string{"Y"})
//	graph.SaveNetDef("predict.yaml", b.Net())
package graph

import (
	"io"

	"github.com/ember-ml/ember/internal/graph"
)

// Argument is a keyword attribute attached to an operator declaration.
type Argument = graph.Argument

// OperatorDef declares a single named computation.
type OperatorDef = graph.OperatorDef

// NetDef is an ordered list of operator declarations.
type NetDef = graph.NetDef

// Builder records operator declarations into a NetDef.
type Builder = graph.Builder

// Observer is notified of every operator declared through a Builder.
type Observer = graph.Observer

// NewBuilder creates a builder for a net with the given name.
func NewBuilder(name string) *Builder {
	return graph.NewBuilder(name)
}

// IntArg builds an integer argument.
func IntArg(name string, v int64) Argument {
	return graph.IntArg(name, v)
}

// FloatArg builds a float argument.
func FloatArg(name string, v float32) Argument {
	return graph.FloatArg(name, v)
}

// StringArg builds a string argument.
func StringArg(name, v string) Argument {
	return graph.StringArg(name, v)
}

// IntsArg builds an integer-array argument.
func IntsArg(name string, v ...int64) Argument {
	return graph.IntsArg(name, v...)
}

// EncodeNetDef writes a net definition as YAML.
func EncodeNetDef(w io.Writer, net *NetDef) error {
	return graph.EncodeNetDef(w, net)
}

// DecodeNetDef reads a YAML net definition.
func DecodeNetDef(r io.Reader) (*NetDef, error) {
	return graph.DecodeNetDef(r)
}

// SaveNetDef writes a net definition to a YAML file.
func SaveNetDef(path string, net *NetDef) error {
	return graph.SaveNetDef(path, net)
}

// LoadNetDef reads a net definition from a YAML file.
func LoadNetDef(path string) (*NetDef, error) {
	return graph.LoadNetDef(path)
}
