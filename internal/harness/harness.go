package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/entitygraph/internal/entity"
	"github.com/roach88/entitygraph/internal/graphdoc"
	"github.com/roach88/entitygraph/internal/store"
	"github.com/roach88/entitygraph/internal/testutil"
)

// StoreID is the fixed ID of every store the harness creates.
var StoreID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Harness executes one scenario against one store.
type Harness struct {
	scenario *Scenario
	store    *store.Store
	handles  *testutil.SequentialHandles
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*Harness)

// WithLogger sets the logger passed to the store. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh store with a fixed ID and sequential
// handles for reproducible traces.
//
// Execution flow:
//  1. Create the store with the scenario's strategy
//  2. Execute setup steps (any failure aborts the run)
//  3. Execute flow steps, checking expect clauses
//  4. Evaluate assertions against the final snapshot
//
// Returns an error only when the scenario cannot be executed; failed
// expectations and assertions are reported in the Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	strategy := store.DefaultStrategy
	if scenario.Strategy != "" {
		s, err := store.ParseStrategy(scenario.Strategy)
		if err != nil {
			return nil, err
		}
		strategy = s
	}

	h := &Harness{
		scenario: scenario,
		handles:  testutil.NewSequentialHandles(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}

	st, err := store.New(
		store.WithID(StoreID),
		store.WithStrategy(strategy),
		store.WithHandleSource(h.handles),
		store.WithLogger(h.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	h.store = st

	result := NewResult()
	for i, step := range scenario.Setup {
		ev, err := h.execute("setup", i, step)
		if err != nil {
			return nil, fmt.Errorf("setup step %d: %w", i, err)
		}
		result.AddTrace(ev)
	}

	for i, step := range scenario.Flow {
		ev, err := h.execute("flow", i, step)
		if err != nil && store.IsFatal(err) {
			return nil, fmt.Errorf("flow step %d: %w", i, err)
		}
		var docErr *graphdoc.Error
		if errors.As(err, &docErr) {
			return nil, fmt.Errorf("flow step %d: %w", i, err)
		}
		result.AddTrace(ev)
		for _, msg := range checkExpect(i, step, ev, err) {
			result.AddError(msg)
		}
	}

	result.Snapshot = st.Snapshot()
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// execute runs one step and returns its trace event. Store errors are
// returned alongside the event so flow steps can match them against
// expectations.
func (h *Harness) execute(phase string, index int, step Step) (TraceEvent, error) {
	ev := TraceEvent{Phase: phase, Step: index + 1, Op: step.Op, Result: "ok"}
	before := h.store.Len()

	var (
		m   *store.ManagedEntity
		err error
	)
	switch step.Op {
	case OpNew:
		ev.Subject = step.ID
		var id entity.Identity
		if id, err = entity.ParseIdentity(step.ID); err == nil {
			m, err = h.store.NewEntity(id)
		}
	case OpRemove:
		ev.Subject = step.ID
		var id entity.Identity
		if id, err = entity.ParseIdentity(step.ID); err == nil {
			m, err = h.store.RemoveByIdentity(id)
		}
		if err == nil {
			ev.Removed = 1
		}
	case OpMerge:
		var g *graphdoc.Graph
		if g, err = h.loadGraph(step); err != nil {
			return ev, err
		}
		ev.Subject = g.Root.Identity().String()
		m, err = h.store.Merge(g.Root)
	default:
		err = fmt.Errorf("unknown op %q", step.Op)
	}

	if err != nil {
		var se *store.Error
		if !errors.As(err, &se) {
			return ev, err
		}
		ev.Result = string(se.Code)
	}
	if m != nil {
		ev.Entity = m.Identity().String()
		ev.Handle = m.Handle().String()
	}
	ev.Created = max(0, h.store.Len()-before+ev.Removed)
	ev.Version = h.store.Version()

	h.logger.Debug("step executed",
		"phase", phase,
		"step", ev.Step,
		"op", ev.Op,
		"subject", ev.Subject,
		"result", ev.Result,
	)
	return ev, err
}

func (h *Harness) loadGraph(step Step) (*graphdoc.Graph, error) {
	if step.File != "" {
		return graphdoc.Load(h.scenario.resolve(step.File))
	}
	return graphdoc.Build(step.Graph)
}

// checkExpect compares a flow step's outcome against its expect clause.
func checkExpect(index int, step Step, ev TraceEvent, err error) []string {
	var errs []string
	want := &ExpectClause{}
	if step.Expect != nil {
		want = step.Expect
	}

	switch {
	case want.Error == "" && err != nil:
		errs = append(errs, fmt.Sprintf("flow[%d]: unexpected error: %v", index, err))
	case want.Error != "" && err == nil:
		errs = append(errs, fmt.Sprintf("flow[%d]: expected error %s, step succeeded", index, want.Error))
	case want.Error != "" && ev.Result != want.Error:
		errs = append(errs, fmt.Sprintf("flow[%d]: expected error %s, got %s", index, want.Error, ev.Result))
	}
	if want.Entity != "" && ev.Entity != canonicalID(want.Entity) {
		errs = append(errs, fmt.Sprintf("flow[%d]: expected entity %s, got %q", index, want.Entity, ev.Entity))
	}
	if want.Created != nil && ev.Created != *want.Created {
		errs = append(errs, fmt.Sprintf("flow[%d]: expected %d created, got %d", index, *want.Created, ev.Created))
	}
	return errs
}

// canonicalID normalizes an identity string the way the store does.
func canonicalID(s string) string {
	id, err := entity.ParseIdentity(s)
	if err != nil {
		return s
	}
	return id.String()
}
