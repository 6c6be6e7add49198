package immediate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/ops"
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/ember-ml/ember/internal/workspace"
)

func newSession(t *testing.T) (*Session, *graph.Builder) {
	t.Helper()
	b := graph.NewBuilder("predict")
	return New(b, ops.NewRegistry()), b
}

func fromFloat32s(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat32s(data, shape)
	require.NoError(t, err)
	return raw
}

func TestStartTwiceFails(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Start(true))
	assert.ErrorIs(t, s.Start(true), ErrAlreadyActive)
	require.NoError(t, s.Stop())
}

func TestStopWithoutStartFails(t *testing.T) {
	s, _ := newSession(t)
	assert.ErrorIs(t, s.Stop(), ErrNotActive)

	require.NoError(t, s.Start(true))
	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.Stop(), ErrNotActive)
}

func TestInactiveOperationsFail(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.Fetch("X")
	assert.ErrorIs(t, err, ErrNotActive)

	err = s.Feed("X", fromFloat32s(t, []float32{1}, tensor.Shape{1}))
	assert.ErrorIs(t, err, ErrNotActive)

	_, err = s.Names()
	assert.ErrorIs(t, err, ErrNotActive)

	err = s.Run(&graph.OperatorDef{Type: "Relu", Inputs: []string{"X"}, Outputs: []string{"Y"}})
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestFeedFetchRoundTrip(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Start(true))
	defer s.Stop()

	x := fromFloat32s(t, []float32{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, s.Feed("X", x))

	got, err := s.Fetch("X")
	require.NoError(t, err)
	assert.Same(t, x, got)
}

func TestFetchUnknownName(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Start(true))
	defer s.Stop()

	_, err := s.Fetch("nope")
	require.Error(t, err)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "nope", notFound.Name)
}

func TestDeclarationRunsEagerly(t *testing.T) {
	s, b := newSession(t)
	require.NoError(t, s.Start(true))
	defer s.Stop()

	require.NoError(t, s.Feed("X", fromFloat32s(t, []float32{1, -1, 2, -2}, tensor.Shape{2, 2})))

	_, err := b.AddOp("Relu", []string{"X"}, []string{"Y"})
	require.NoError(t, err)

	y, err := s.Fetch("Y")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, y.Shape())
	assert.Equal(t, []float32{1, 0, 2, 0}, y.AsFloat32())
}

func TestMissingInputIsAtomic(t *testing.T) {
	s, b := newSession(t)
	require.NoError(t, s.Start(true))
	defer s.Stop()

	require.NoError(t, s.Feed("A", fromFloat32s(t, []float32{1}, tensor.Shape{1})))

	_, err := b.AddOp("Add", []string{"A", "B"}, []string{"C"})
	require.Error(t, err)

	var missing *MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "B", missing.Input)

	// The auxiliary store is unchanged: no partial outputs.
	_, err = s.Fetch("C")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))

	names, err := s.Names()
	require.NoError(t, err)
	var got []string
	for name := range names {
		got = append(got, name)
	}
	assert.Equal(t, []string{"A"}, got)

	// The declaration still landed in the deferred net.
	assert.Equal(t, 1, b.NumOps())
}

func TestNoLeakageAcrossActivations(t *testing.T) {
	s, _ := newSession(t)

	require.NoError(t, s.Start(true))
	require.NoError(t, s.Feed("X", fromFloat32s(t, []float32{1}, tensor.Shape{1})))
	require.NoError(t, s.Stop())

	require.NoError(t, s.Start(true))
	defer s.Stop()

	_, err := s.Fetch("X")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestRectifyScenario(t *testing.T) {
	// Feed X, declare a clamp-negatives-to-zero operator, fetch Y, and
	// confirm the primary store never sees Y.
	primary := workspace.New()
	s, b := newSession(t)
	require.NoError(t, s.Start(true))
	defer s.Stop()

	require.NoError(t, s.Feed("X", fromFloat32s(t, []float32{1, -1, 2, -2}, tensor.Shape{2, 2})))

	_, err := b.AddOp("Relu", []string{"X"}, []string{"Y"})
	require.NoError(t, err)

	y, err := s.Fetch("Y")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 2, 0}, y.AsFloat32())

	assert.False(t, primary.Has("Y"))
	assert.False(t, primary.Has("X"))
}

func TestRunDoesNotRecord(t *testing.T) {
	s, b := newSession(t)
	require.NoError(t, s.Start(true))
	defer s.Stop()

	require.NoError(t, s.Feed("X", fromFloat32s(t, []float32{-5}, tensor.Shape{1})))
	require.NoError(t, s.Run(&graph.OperatorDef{Type: "Relu", Inputs: []string{"X"}, Outputs: []string{"Y"}}))

	y, err := s.Fetch("Y")
	require.NoError(t, err)
	assert.Equal(t, []float32{0}, y.AsFloat32())
	assert.Equal(t, 0, b.NumOps())
}

func TestDeclarationsIgnoredAfterStop(t *testing.T) {
	s, b := newSession(t)
	require.NoError(t, s.Start(true))
	require.NoError(t, s.Stop())

	// Ordinary deferred declaration: no eager execution, no error.
	_, err := b.AddOp("Relu", []string{"X"}, []string{"Y"})
	require.NoError(t, err)
	assert.Equal(t, 1, b.NumOps())
}

func TestIndependentSessions(t *testing.T) {
	s1, b1 := newSession(t)
	s2, _ := newSession(t)

	require.NoError(t, s1.Start(true))
	require.NoError(t, s2.Start(true))
	defer s1.Stop()
	defer s2.Stop()

	require.NoError(t, s1.Feed("X", fromFloat32s(t, []float32{-1}, tensor.Shape{1})))
	_, err := b1.AddOp("Relu", []string{"X"}, []string{"Y"})
	require.NoError(t, err)

	// s2 has its own store and never saw s1's tensors.
	_, err = s2.Fetch("Y")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestAdvisoryLogging(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := graph.NewBuilder("predict")
	s := New(b, ops.NewRegistry(), WithLogger(zap.New(core)))

	require.NoError(t, s.Start(false))
	require.NoError(t, s.Stop())
	assert.Equal(t, 1, logs.Len(), "advisory should be logged once")

	require.NoError(t, s.Start(true))
	require.NoError(t, s.Stop())
	assert.Equal(t, 1, logs.Len(), "suppressed Start should not log")
}

func TestSessionID(t *testing.T) {
	s, _ := newSession(t)
	assert.Empty(t, s.ID())

	require.NoError(t, s.Start(true))
	first := s.ID()
	assert.NotEmpty(t, first)
	require.NoError(t, s.Stop())

	require.NoError(t, s.Start(true))
	assert.NotEqual(t, first, s.ID(), "each activation gets a fresh ID")
	require.NoError(t, s.Stop())
}
