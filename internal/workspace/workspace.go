// Package workspace implements the named tensor store and the deferred
// execution path that runs recorded nets against it.
package workspace

import (
	"iter"
	"sort"

	"github.com/ember-ml/ember/internal/tensor"
)

// Workspace is a mapping from tensor names to tensors. A long-lived
// workspace acts as the primary store for deferred net execution; the
// immediate session uses a private, ephemeral one as its auxiliary store.
//
// Names are unique; feeding an existing name overwrites it.
// Workspace is not safe for concurrent use.
type Workspace struct {
	blobs map[string]*tensor.RawTensor
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		blobs: make(map[string]*tensor.RawTensor),
	}
}

// Feed stores a tensor under name, creating or overwriting the entry.
func (ws *Workspace) Feed(name string, t *tensor.RawTensor) {
	ws.blobs[name] = t
}

// Fetch returns the tensor stored under name.
// Returns a *NotFoundError if the name is absent.
func (ws *Workspace) Fetch(name string) (*tensor.RawTensor, error) {
	t, ok := ws.blobs[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return t, nil
}

// Has reports whether a tensor is stored under name.
func (ws *Workspace) Has(name string) bool {
	_, ok := ws.blobs[name]
	return ok
}

// Remove deletes the entry for name, if present.
func (ws *Workspace) Remove(name string) {
	delete(ws.blobs, name)
}

// Len returns the number of stored tensors.
func (ws *Workspace) Len() int {
	return len(ws.blobs)
}

// Reset discards all stored tensors.
func (ws *Workspace) Reset() {
	ws.blobs = make(map[string]*tensor.RawTensor)
}

// Names returns a sequence over the stored names in sorted order.
// The sequence is a snapshot: mutations after the call do not show up
// during iteration.
func (ws *Workspace) Names() iter.Seq[string] {
	names := make([]string, 0, len(ws.blobs))
	for name := range ws.blobs {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(yield func(string) bool) {
		for _, name := range names {
			if !yield(name) {
				return
			}
		}
	}
}
