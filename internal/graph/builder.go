package graph

import (
	"fmt"
)

// Observer is notified of every operator declared through a Builder.
// The immediate-execution session implements this interface to mirror
// declarations eagerly; other observers (tracing, validation) fit the same
// hook.
type Observer interface {
	OnOperator(op *OperatorDef) error
}

// Builder records operator declarations into a NetDef for later execution.
// Declarations are deferred: nothing is computed until the net is run
// against a workspace.
//
// Builder is not safe for concurrent use.
//
// Example:
//
//	b := graph.NewBuilder("predict")
//	b.AddOp("Relu", []string{"X"}, []string{"Y"})
//	net := b.Net()
type Builder struct {
	net       *NetDef
	observers []Observer
}

// NewBuilder creates a builder for a net with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		net: &NetDef{Name: name},
	}
}

// AddOp declares an operator and appends it to the net. Attached observers
// are notified in attachment order; the first observer error is returned.
// The declaration itself always succeeds — an observer failure reports a
// problem in the side channel, not in the recorded net.
func (b *Builder) AddOp(opType string, inputs, outputs []string, args ...Argument) (*OperatorDef, error) {
	if opType == "" {
		return nil, fmt.Errorf("graph: operator type must not be empty")
	}
	op := &OperatorDef{
		Type:    opType,
		Inputs:  append([]string(nil), inputs...),
		Outputs: append([]string(nil), outputs...),
		Args:    args,
	}
	b.net.Ops = append(b.net.Ops, op)

	for _, obs := range b.observers {
		if err := obs.OnOperator(op); err != nil {
			return op, err
		}
	}
	return op, nil
}

// AddExternalInput records tensor names the net expects to be fed before
// execution.
func (b *Builder) AddExternalInput(names ...string) {
	b.net.ExternalInputs = append(b.net.ExternalInputs, names...)
}

// AddExternalOutput records tensor names the net promises to produce.
func (b *Builder) AddExternalOutput(names ...string) {
	b.net.ExternalOutputs = append(b.net.ExternalOutputs, names...)
}

// Net returns the net built so far. The returned definition is live: later
// AddOp calls keep appending to it.
func (b *Builder) Net() *NetDef {
	return b.net
}

// Name returns the net's name.
func (b *Builder) Name() string {
	return b.net.Name
}

// NumOps returns the number of declared operators.
func (b *Builder) NumOps() int {
	return len(b.net.Ops)
}

// AttachObserver registers an observer for future declarations.
// Attaching the same observer twice is an error.
func (b *Builder) AttachObserver(obs Observer) error {
	for _, existing := range b.observers {
		if existing == obs {
			return fmt.Errorf("graph: observer already attached")
		}
	}
	b.observers = append(b.observers, obs)
	return nil
}

// DetachObserver removes a previously attached observer.
func (b *Builder) DetachObserver(obs Observer) error {
	for i, existing := range b.observers {
		if existing == obs {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("graph: observer not attached")
}
