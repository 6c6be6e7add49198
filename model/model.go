// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model provides the public API for the layer-level model helper.
//
// A Helper builds a model as two nets: an init net of parameter fillers
// and a main net of compute operators. Layer methods return the output
// tensor name so calls chain naturally:
//
//	m := model.NewHelper("lenet")
//	h, _ := m.Conv("data", "conv1", 1, 20, 5, 1, 0)
//	h, _ = m.MaxPool(h, "pool1", 2, 2)
package model

import (
	"github.com/ember-ml/ember/internal/model"
)

// Helper builds a model as a parameter-init net plus a main net.
type Helper = model.Helper

// NewHelper creates a model helper with empty init and main nets.
func NewHelper(name string) *Helper {
	return model.NewHelper(name)
}
