package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember-ml/ember/internal/immediate"
	"github.com/ember-ml/ember/internal/ops"
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/ember-ml/ember/internal/workspace"
)

// buildLeNet declares the classic LeNet stack for 28x28 single-channel
// input and returns the helper.
func buildLeNet(t *testing.T) *Helper {
	t.Helper()
	m := NewHelper("lenet")
	m.Builder().AddExternalInput("data")

	h, err := m.Conv("data", "conv1", 1, 20, 5, 1, 0)
	require.NoError(t, err)
	h, err = m.MaxPool(h, "pool1", 2, 2)
	require.NoError(t, err)
	h, err = m.Conv(h, "conv2", 20, 50, 5, 1, 0)
	require.NoError(t, err)
	h, err = m.MaxPool(h, "pool2", 2, 2)
	require.NoError(t, err)
	h, err = m.Flatten(h, "flat")
	require.NoError(t, err)
	h, err = m.FC(h, "fc3", 50*4*4, 500)
	require.NoError(t, err)
	h, err = m.Relu(h, "relu3")
	require.NoError(t, err)
	h, err = m.FC(h, "pred", 500, 10)
	require.NoError(t, err)
	_, err = m.Softmax(h, "softmax")
	require.NoError(t, err)
	m.Builder().AddExternalOutput("softmax")
	return m
}

func TestHelperTracksParams(t *testing.T) {
	m := buildLeNet(t)

	assert.Equal(t, []string{
		"conv1_w", "conv1_b",
		"conv2_w", "conv2_b",
		"fc3_w", "fc3_b",
		"pred_w", "pred_b",
	}, m.Params())
	assert.Equal(t, len(m.Params()), len(m.InitNet().Ops))
	assert.Equal(t, 9, len(m.Net().Ops))
}

func TestHelperRejectsBadConfig(t *testing.T) {
	m := NewHelper("bad")

	_, err := m.Conv("data", "conv1", 0, 20, 5, 1, 0)
	assert.Error(t, err)
	_, err = m.Conv("data", "conv1", 1, 20, -5, 1, 0)
	assert.Error(t, err)
	_, err = m.FC("data", "fc1", 0, 10)
	assert.Error(t, err)
}

func TestLeNetDeferredRun(t *testing.T) {
	m := buildLeNet(t)
	ws := workspace.New()
	reg := ops.NewRegistry()
	ctx := &ops.Context{Rand: rand.New(rand.NewSource(3))}

	require.NoError(t, ws.RunNet(m.InitNet(), reg, ctx))
	for _, param := range m.Params() {
		assert.True(t, ws.Has(param), "init net did not produce %s", param)
	}

	data, err := tensor.RandnFloat32(tensor.Shape{2, 1, 28, 28}, 0, 1, ctx.Rand)
	require.NoError(t, err)
	ws.Feed("data", data)

	require.NoError(t, ws.RunNet(m.Net(), reg, ctx))

	out, err := ws.Fetch("softmax")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 10}, out.Shape())

	// Each row is a probability distribution.
	probs := out.AsFloat32()
	for row := 0; row < 2; row++ {
		var sum float64
		for col := 0; col < 10; col++ {
			sum += float64(probs[row*10+col])
		}
		assert.InDelta(t, 1.0, sum, 1e-4)
	}
}

func TestLeNetImmediateShapeInspection(t *testing.T) {
	// The tutorial flow: attach an immediate session to the model builder,
	// feed a batch, and watch intermediate shapes appear while layers are
	// declared.
	m := NewHelper("lenet")
	reg := ops.NewRegistry()
	sess := immediate.New(m.Builder(), reg, immediate.WithRand(rand.New(rand.NewSource(5))))
	require.NoError(t, sess.Start(true))
	defer sess.Stop()

	data, err := tensor.RandnFloat32(tensor.Shape{1, 1, 28, 28}, 0, 1, rand.New(rand.NewSource(6)))
	require.NoError(t, err)
	require.NoError(t, sess.Feed("data", data))

	// Parameters do not exist in the session store yet; seed them the way
	// the init net would.
	w, err := tensor.XavierFloat32(tensor.Shape{20, 1, 5, 5}, 25, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := tensor.Zeros(tensor.Shape{20}, tensor.Float32)
	require.NoError(t, err)
	require.NoError(t, sess.Feed("conv1_w", w))
	require.NoError(t, sess.Feed("conv1_b", b))

	_, err = m.Conv("data", "conv1", 1, 20, 5, 1, 0)
	require.NoError(t, err)

	conv1, err := sess.Fetch("conv1")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 20, 24, 24}, conv1.Shape())

	_, err = m.MaxPool("conv1", "pool1", 2, 2)
	require.NoError(t, err)

	pool1, err := sess.Fetch("pool1")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 20, 12, 12}, pool1.Shape())
}

func TestHelperReluMatchesMath(t *testing.T) {
	m := NewHelper("tiny")
	reg := ops.NewRegistry()
	sess := immediate.New(m.Builder(), reg)
	require.NoError(t, sess.Start(true))
	defer sess.Stop()

	x, err := tensor.FromFloat32s([]float32{-1.5, 0, 2.5}, tensor.Shape{3})
	require.NoError(t, err)
	require.NoError(t, sess.Feed("x", x))

	_, err = m.Relu("x", "y")
	require.NoError(t, err)

	y, err := sess.Fetch("y")
	require.NoError(t, err)
	for i, v := range x.AsFloat32() {
		expected := float32(math.Max(float64(v), 0))
		assert.Equal(t, expected, y.AsFloat32()[i])
	}
}
