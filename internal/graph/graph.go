// Package graph defines the deferred computation graph: operator
// declarations, net definitions, and the builder that records them.
package graph

// Argument is a keyword attribute attached to an operator declaration,
// e.g. kernel size or stride. Only the field matching the argument's kind
// is meaningful.
type Argument struct {
	Name   string    `yaml:"name"`
	I      int64     `yaml:"i,omitempty"`
	F      float32   `yaml:"f,omitempty"`
	S      string    `yaml:"s,omitempty"`
	Ints   []int64   `yaml:"ints,omitempty,flow"`
	Floats []float32 `yaml:"floats,omitempty,flow"`
}

// IntArg builds an integer argument.
func IntArg(name string, v int64) Argument {
	return Argument{Name: name, I: v}
}

// FloatArg builds a float argument.
func FloatArg(name string, v float32) Argument {
	return Argument{Name: name, F: v}
}

// StringArg builds a string argument.
func StringArg(name, v string) Argument {
	return Argument{Name: name, S: v}
}

// IntsArg builds an integer-array argument.
func IntsArg(name string, v ...int64) Argument {
	return Argument{Name: name, Ints: v}
}

// OperatorDef declares a single named computation: an operator type,
// input and output tensor names, and keyword arguments. Runtime semantics
// of the type are supplied by an operator registry, not by this package.
type OperatorDef struct {
	Type    string     `yaml:"type"`
	Name    string     `yaml:"name,omitempty"`
	Inputs  []string   `yaml:"inputs,omitempty,flow"`
	Outputs []string   `yaml:"outputs,omitempty,flow"`
	Args    []Argument `yaml:"args,omitempty"`
}

// ArgInt returns the named integer argument or a default.
func (op *OperatorDef) ArgInt(name string, defaultVal int64) int64 {
	for i := range op.Args {
		if op.Args[i].Name == name {
			return op.Args[i].I
		}
	}
	return defaultVal
}

// ArgFloat returns the named float argument or a default.
func (op *OperatorDef) ArgFloat(name string, defaultVal float32) float32 {
	for i := range op.Args {
		if op.Args[i].Name == name {
			return op.Args[i].F
		}
	}
	return defaultVal
}

// ArgString returns the named string argument or a default.
func (op *OperatorDef) ArgString(name, defaultVal string) string {
	for i := range op.Args {
		if op.Args[i].Name == name {
			return op.Args[i].S
		}
	}
	return defaultVal
}

// ArgInts returns the named integer-array argument, or nil if absent.
func (op *OperatorDef) ArgInts(name string) []int64 {
	for i := range op.Args {
		if op.Args[i].Name == name {
			return op.Args[i].Ints
		}
	}
	return nil
}

// Clone returns a deep copy of the operator definition.
func (op *OperatorDef) Clone() *OperatorDef {
	clone := &OperatorDef{
		Type:    op.Type,
		Name:    op.Name,
		Inputs:  append([]string(nil), op.Inputs...),
		Outputs: append([]string(nil), op.Outputs...),
	}
	if op.Args != nil {
		clone.Args = make([]Argument, len(op.Args))
		for i, a := range op.Args {
			a.Ints = append([]int64(nil), a.Ints...)
			a.Floats = append([]float32(nil), a.Floats...)
			clone.Args[i] = a
		}
	}
	return clone
}

// NetDef is an ordered list of operator declarations plus the tensor names
// the net expects to be fed (ExternalInputs) and the names it promises to
// produce (ExternalOutputs).
type NetDef struct {
	Name            string         `yaml:"name"`
	Ops             []*OperatorDef `yaml:"ops,omitempty"`
	ExternalInputs  []string       `yaml:"external_inputs,omitempty,flow"`
	ExternalOutputs []string       `yaml:"external_outputs,omitempty,flow"`
}

// Clone returns a deep copy of the net definition.
func (n *NetDef) Clone() *NetDef {
	clone := &NetDef{
		Name:            n.Name,
		ExternalInputs:  append([]string(nil), n.ExternalInputs...),
		ExternalOutputs: append([]string(nil), n.ExternalOutputs...),
	}
	for _, op := range n.Ops {
		clone.Ops = append(clone.Ops, op.Clone())
	}
	return clone
}
