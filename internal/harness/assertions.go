package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/entitygraph/internal/entity"
	"github.com/roach88/entitygraph/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  %s\n", formatEvent(ev))
	}
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result's final
// snapshot. Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	snap := result.Snapshot
	if snap == nil {
		return fmt.Errorf("no snapshot to evaluate")
	}
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: result.Trace}
	}

	switch a.Type {
	case AssertCount:
		if snap.Len() != a.Count {
			return fail(fmt.Sprintf("%d entities", a.Count), fmt.Sprintf("%d entities", snap.Len()))
		}
		return nil

	case AssertContains:
		if _, ok, err := lookup(snap, a.ID); err != nil {
			return err
		} else if !ok {
			return fail(fmt.Sprintf("%s is managed", a.ID), "not found")
		}
		return nil

	case AssertAbsent:
		if _, ok, err := lookup(snap, a.ID); err != nil {
			return err
		} else if ok {
			return fail(fmt.Sprintf("%s is not managed", a.ID), "found")
		}
		return nil

	case AssertReferences, AssertNotReferences:
		r, err := mustLookup(snap, a.ID)
		if err != nil {
			return err
		}
		target, err := entity.ParseIdentity(a.Target)
		if err != nil {
			return err
		}
		has := refers(r, target)
		if a.Type == AssertReferences && !has {
			return fail(fmt.Sprintf("%s references %s", a.ID, a.Target), describe(r))
		}
		if a.Type == AssertNotReferences && has {
			return fail(fmt.Sprintf("%s does not reference %s", a.ID, a.Target), describe(r))
		}
		return nil

	case AssertLiteral:
		r, err := mustLookup(snap, a.ID)
		if err != nil {
			return err
		}
		want, err := entity.ParseLiteral(entity.Datatype(a.Datatype), a.Literal)
		if err != nil {
			return err
		}
		predicate := entity.NewPredicate(a.Predicate)
		for _, p := range r.Properties() {
			if p.Predicate() == predicate && p.Has(want) {
				return nil
			}
		}
		return fail(fmt.Sprintf("%s %s %s", a.ID, a.Predicate, want), describe(r))

	case AssertValueCount:
		r, err := mustLookup(snap, a.ID)
		if err != nil {
			return err
		}
		n := 0
		for _, p := range r.Properties() {
			n += p.Len()
		}
		if n != a.Count {
			return fail(fmt.Sprintf("%s holds %d values", a.ID, a.Count), fmt.Sprintf("%d values", n))
		}
		return nil

	case AssertNoDangling:
		if dangling := snap.Dangling(); len(dangling) > 0 {
			edges := make([]string, len(dangling))
			for i, d := range dangling {
				edges[i] = fmt.Sprintf("%s -> %s", d[0], d[1])
			}
			return fail("no dangling references", strings.Join(edges, ", "))
		}
		return nil

	case AssertOrder:
		positions := make(map[entity.Identity]int, snap.Len())
		for i, id := range snap.Identities() {
			positions[id] = i
		}
		prev := -1
		for _, s := range a.IDs {
			id, err := entity.ParseIdentity(s)
			if err != nil {
				return err
			}
			pos, ok := positions[id]
			if !ok {
				return fail(fmt.Sprintf("order %v", a.IDs), fmt.Sprintf("missing %s", s))
			}
			if pos <= prev {
				return fail(fmt.Sprintf("order %v", a.IDs), fmt.Sprintf("%s is out of order", s))
			}
			prev = pos
		}
		return nil

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func lookup(snap *store.Snapshot, s string) (store.Record, bool, error) {
	id, err := entity.ParseIdentity(s)
	if err != nil {
		return store.Record{}, false, err
	}
	r, ok := snap.Lookup(id)
	return r, ok, nil
}

func mustLookup(snap *store.Snapshot, s string) (store.Record, error) {
	r, ok, err := lookup(snap, s)
	if err != nil {
		return store.Record{}, err
	}
	if !ok {
		return store.Record{}, fmt.Errorf("%s is not managed", s)
	}
	return r, nil
}

func refers(r store.Record, target entity.Identity) bool {
	for _, p := range r.Properties() {
		if p.Refers(target) {
			return true
		}
	}
	return false
}

// describe renders a record's values on one line.
func describe(r store.Record) string {
	var parts []string
	for _, p := range r.Properties() {
		for _, v := range p.Values() {
			parts = append(parts, fmt.Sprintf("%s %s", p.Predicate(), v))
		}
	}
	if len(parts) == 0 {
		return "(no properties)"
	}
	return strings.Join(parts, "; ")
}
