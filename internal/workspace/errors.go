package workspace

import "fmt"

// NotFoundError reports a fetch of a tensor name the store does not hold.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("workspace: tensor %q not found", e.Name)
}

// MissingInputError reports an operator whose input name could not be
// resolved against the store. Input is the first unresolved name.
type MissingInputError struct {
	Op    string
	Input string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("workspace: operator %s: missing input %q", e.Op, e.Input)
}
