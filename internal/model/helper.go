// Package model provides a layer-level helper over the graph builder. Each
// layer call declares the compute operator into the main net and the
// matching parameter fillers into a separate init net, the way hand-written
// model definitions do it.
package model

import (
	"fmt"

	"github.com/ember-ml/ember/internal/graph"
)

// Helper builds a model as a pair of nets: an init net of parameter
// fillers, run once to populate a workspace, and a main net of compute
// operators, run per batch. Layer methods return the output tensor name so
// calls chain naturally.
//
// Example:
//
//	m := model.NewHelper("lenet")
//	h, _ := m.Conv("data", "conv1", 1, 20, 5, 1, 0)
//	h, _ = m.MaxPool(h, "pool1", 2, 2)
//	h, _ = m.FC(h, "fc3", 20*12*12, 500)
type Helper struct {
	name   string
	init   *graph.Builder
	net    *graph.Builder
	params []string
}

// NewHelper creates a model helper with empty init and main nets.
func NewHelper(name string) *Helper {
	return &Helper{
		name: name,
		init: graph.NewBuilder(name + "_init"),
		net:  graph.NewBuilder(name),
	}
}

// Builder returns the main net's builder. Attach an immediate session here
// to execute layer declarations eagerly while the model is being defined.
func (h *Helper) Builder() *graph.Builder {
	return h.net
}

// InitBuilder returns the parameter-init net's builder.
func (h *Helper) InitBuilder() *graph.Builder {
	return h.init
}

// Net returns the main net definition.
func (h *Helper) Net() *graph.NetDef {
	return h.net.Net()
}

// InitNet returns the parameter-init net definition.
func (h *Helper) InitNet() *graph.NetDef {
	return h.init.Net()
}

// Name returns the model name.
func (h *Helper) Name() string {
	return h.name
}

// Params returns the parameter tensor names declared so far, in order.
func (h *Helper) Params() []string {
	return append([]string(nil), h.params...)
}

// addParam declares a filler into the init net and tracks the name.
func (h *Helper) addParam(name, fillerType string, args ...graph.Argument) error {
	if _, err := h.init.AddOp(fillerType, nil, []string{name}, args...); err != nil {
		return fmt.Errorf("model %s: init %s: %w", h.name, name, err)
	}
	h.params = append(h.params, name)
	h.net.AddExternalInput(name)
	return nil
}

// Conv adds a convolution layer with Xavier-initialized weights and zero
// bias. Parameters are named output+"_w" and output+"_b". Returns the
// output tensor name.
func (h *Helper) Conv(input, output string, inChannels, outChannels, kernel, stride, pad int) (string, error) {
	if inChannels <= 0 || outChannels <= 0 {
		return "", fmt.Errorf("model %s: conv %s: invalid channels in=%d, out=%d", h.name, output, inChannels, outChannels)
	}
	if kernel <= 0 {
		return "", fmt.Errorf("model %s: conv %s: invalid kernel size %d", h.name, output, kernel)
	}

	weight, bias := output+"_w", output+"_b"
	if err := h.addParam(weight, "XavierFill",
		graph.IntsArg("shape", int64(outChannels), int64(inChannels), int64(kernel), int64(kernel))); err != nil {
		return "", err
	}
	if err := h.addParam(bias, "ConstantFill",
		graph.IntsArg("shape", int64(outChannels))); err != nil {
		return "", err
	}

	_, err := h.net.AddOp("Conv", []string{input, weight, bias}, []string{output},
		graph.IntArg("stride", int64(stride)),
		graph.IntArg("pad", int64(pad)))
	return output, err
}

// FC adds a fully connected layer with Xavier-initialized weights and zero
// bias. Returns the output tensor name.
func (h *Helper) FC(input, output string, inSize, outSize int) (string, error) {
	if inSize <= 0 || outSize <= 0 {
		return "", fmt.Errorf("model %s: fc %s: invalid sizes in=%d, out=%d", h.name, output, inSize, outSize)
	}

	weight, bias := output+"_w", output+"_b"
	if err := h.addParam(weight, "XavierFill",
		graph.IntsArg("shape", int64(outSize), int64(inSize))); err != nil {
		return "", err
	}
	if err := h.addParam(bias, "ConstantFill",
		graph.IntsArg("shape", int64(outSize))); err != nil {
		return "", err
	}

	_, err := h.net.AddOp("FC", []string{input, weight, bias}, []string{output})
	return output, err
}

// MaxPool adds a max pooling layer. Returns the output tensor name.
func (h *Helper) MaxPool(input, output string, kernel, stride int) (string, error) {
	_, err := h.net.AddOp("MaxPool", []string{input}, []string{output},
		graph.IntArg("kernel", int64(kernel)),
		graph.IntArg("stride", int64(stride)))
	return output, err
}

// Relu adds a ReLU activation. Returns the output tensor name.
func (h *Helper) Relu(input, output string) (string, error) {
	_, err := h.net.AddOp("Relu", []string{input}, []string{output})
	return output, err
}

// Flatten adds a flatten op collapsing all trailing dimensions. Returns
// the output tensor name.
func (h *Helper) Flatten(input, output string) (string, error) {
	_, err := h.net.AddOp("Flatten", []string{input}, []string{output})
	return output, err
}

// Softmax adds a softmax over the last dimension. Returns the output
// tensor name.
func (h *Helper) Softmax(input, output string) (string, error) {
	_, err := h.net.AddOp("Softmax", []string{input}, []string{output})
	return output, err
}
