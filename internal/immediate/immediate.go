// Package immediate implements an eager-execution side channel over the
// deferred graph builder. While a session is active, every operator
// declared through the builder is also run synchronously against a private
// auxiliary workspace, so intermediate tensors and shapes can be inspected
// as the net is being written. The deferred net and any primary workspace
// are never touched.
package immediate

import (
	"errors"
	"iter"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ember-ml/ember/internal/graph"
	"github.com/ember-ml/ember/internal/ops"
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/ember-ml/ember/internal/workspace"
)

// State-contract violations. Operator-level failures are reported with
// *workspace.MissingInputError and *workspace.NotFoundError.
var (
	// ErrAlreadyActive is returned by Start on an active session.
	ErrAlreadyActive = errors.New("immediate: session already active")
	// ErrNotActive is returned by operations that require an active session.
	ErrNotActive = errors.New("immediate: session not active")
)

// NotFoundError reports a fetch of a name the auxiliary store does not hold.
type NotFoundError = workspace.NotFoundError

// MissingInputError reports an eagerly executed operator with an unresolved
// input name.
type MissingInputError = workspace.MissingInputError

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for advisory and debug output.
// The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithRand sets the random source used by stochastic fillers during eager
// execution.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// Session is an immediate-execution context bound to one builder. Between
// Start and Stop it owns an auxiliary workspace: declarations made through
// the builder are mirrored into it eagerly, and Feed/Fetch/Names give
// access to the intermediate tensors. Stop discards the store; nothing
// persists across activations.
//
// Each session is independent — separate builders can carry separate
// active sessions. A single session is not safe for concurrent use.
//
// Example:
//
//	sess := immediate.New(builder, registry)
//	if err := sess.Start(false); err != nil { ... }
//	defer sess.Stop()
//
//	sess.Feed("X", x)
//	builder.AddOp("Relu", []string{"X"}, []string{"Y"})
//	y, err := sess.Fetch("Y")
type Session struct {
	builder  *graph.Builder
	registry *ops.Registry
	logger   *zap.Logger
	rng      *rand.Rand

	id  string
	aux *workspace.Workspace // nil while inactive
}

// New creates an inactive session over the given builder and registry.
func New(builder *graph.Builder, registry *ops.Registry, opts ...Option) *Session {
	s := &Session{
		builder:  builder,
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start activates the session: it creates an empty auxiliary workspace and
// attaches to the builder so future declarations run eagerly. Unless
// suppressAdvisory is set, a one-time warning notes that immediate mode
// recomputes every declaration and is meant for debugging.
//
// Returns ErrAlreadyActive if the session is already active.
func (s *Session) Start(suppressAdvisory bool) error {
	if s.aux != nil {
		return ErrAlreadyActive
	}

	s.id = uuid.NewString()
	s.aux = workspace.New()
	if err := s.builder.AttachObserver(s); err != nil {
		s.aux = nil
		return err
	}

	if !suppressAdvisory {
		s.logger.Warn("immediate mode executes every declared operator eagerly; "+
			"expect extra compute and memory, and keep it out of production paths",
			zap.String("session", s.id),
			zap.String("net", s.builder.Name()))
	}
	return nil
}

// Stop deactivates the session, detaching from the builder and discarding
// the auxiliary workspace.
//
// Returns ErrNotActive if the session is not active, so callers notice
// unbalanced Start/Stop pairs instead of silently no-opping.
func (s *Session) Stop() error {
	if s.aux == nil {
		return ErrNotActive
	}
	if err := s.builder.DetachObserver(s); err != nil {
		return err
	}
	s.aux = nil
	return nil
}

// Active reports whether the session currently holds an auxiliary store.
func (s *Session) Active() bool {
	return s.aux != nil
}

// ID returns the identifier of the current activation, or "" before the
// first Start. IDs appear in log fields to tell concurrent-in-time
// debugging sessions apart.
func (s *Session) ID() string {
	return s.id
}

// OnOperator implements graph.Observer: it mirrors a declaration into the
// auxiliary workspace. Input resolution is all-or-nothing — a
// *MissingInputError names the first unresolved input and no output is
// written. Inactive sessions are never attached, so this only runs while
// active.
func (s *Session) OnOperator(op *graph.OperatorDef) error {
	return s.run(op)
}

// Run executes one operator eagerly against the auxiliary store without
// recording it into the deferred net. Useful for probing ad-hoc
// computations over intermediate tensors.
//
// Returns ErrNotActive if the session is not active.
func (s *Session) Run(op *graph.OperatorDef) error {
	if s.aux == nil {
		return ErrNotActive
	}
	return s.run(op)
}

func (s *Session) run(op *graph.OperatorDef) error {
	ctx := &ops.Context{Rand: s.rng, Logger: s.logger}
	if err := s.aux.RunOperator(op, s.registry, ctx); err != nil {
		return err
	}
	s.logger.Debug("immediate ran operator",
		zap.String("session", s.id),
		zap.String("type", op.Type),
		zap.Strings("outputs", op.Outputs))
	return nil
}

// Feed stores a tensor under name in the auxiliary workspace, creating or
// overwriting the entry. This is how external inputs are seeded before
// declaring operators that consume them.
//
// Returns ErrNotActive if the session is not active.
func (s *Session) Feed(name string, t *tensor.RawTensor) error {
	if s.aux == nil {
		return ErrNotActive
	}
	s.aux.Feed(name, t)
	return nil
}

// Fetch returns the tensor stored under name in the auxiliary workspace.
//
// Returns ErrNotActive if the session is not active and a *NotFoundError
// if the name is absent.
func (s *Session) Fetch(name string) (*tensor.RawTensor, error) {
	if s.aux == nil {
		return nil, ErrNotActive
	}
	return s.aux.Fetch(name)
}

// Names returns a snapshot sequence over the names currently present in
// the auxiliary workspace, in sorted order.
//
// Returns ErrNotActive if the session is not active.
func (s *Session) Names() (iter.Seq[string], error) {
	if s.aux == nil {
		return nil, ErrNotActive
	}
	return s.aux.Names(), nil
}
