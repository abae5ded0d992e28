package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entitygraph/internal/graphdoc"
)

// linkedResult runs a scenario building a -> b, b -> a, with c unlinked.
func linkedResult(t *testing.T) *Result {
	t.Helper()
	s := &Scenario{
		Name:        "linked",
		Description: "d",
		Flow: []Step{
			{Op: OpMerge, Graph: &graphdoc.Document{Entities: []graphdoc.EntityDoc{
				labeledDoc("http://example.org/a", "A", "http://example.org/b"),
				labeledDoc("http://example.org/b", "B", "http://example.org/a"),
			}}},
			{Op: OpNew, ID: "http://example.org/c"},
		},
		Assertions: []Assertion{{Type: AssertCount, Count: 3}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	return result
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	result := linkedResult(t)

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertCount, Count: 3},
		{Type: AssertContains, ID: "http://example.org/c"},
		{Type: AssertAbsent, ID: "http://example.org/d"},
		{Type: AssertReferences, ID: "http://example.org/a", Target: "http://example.org/b"},
		{Type: AssertNotReferences, ID: "http://example.org/c", Target: "http://example.org/a"},
		{Type: AssertLiteral, ID: "http://example.org/b", Predicate: vocabLabel, Literal: "B"},
		{Type: AssertValueCount, ID: "http://example.org/a", Count: 2},
		{Type: AssertValueCount, ID: "http://example.org/c", Count: 0},
		{Type: AssertNoDangling},
		{Type: AssertOrder, IDs: []string{"http://example.org/a", "http://example.org/b", "http://example.org/c"}},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	result := linkedResult(t)

	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{"count", Assertion{Type: AssertCount, Count: 1}, "Expected: 1 entities"},
		{"contains", Assertion{Type: AssertContains, ID: "http://example.org/d"}, "Actual: not found"},
		{"absent", Assertion{Type: AssertAbsent, ID: "http://example.org/a"}, "Actual: found"},
		{"references", Assertion{Type: AssertReferences, ID: "http://example.org/c", Target: "http://example.org/a"}, "(no properties)"},
		{"not references", Assertion{Type: AssertNotReferences, ID: "http://example.org/a", Target: "http://example.org/b"}, "does not reference"},
		{"literal", Assertion{Type: AssertLiteral, ID: "http://example.org/a", Predicate: vocabLabel, Literal: "Z"}, `"Z"^^string`},
		{"literal datatype", Assertion{Type: AssertLiteral, ID: "http://example.org/a", Predicate: vocabLabel, Literal: "A", Datatype: "int"}, "int"},
		{"value count", Assertion{Type: AssertValueCount, ID: "http://example.org/a", Count: 5}, "Actual: 2 values"},
		{"order", Assertion{Type: AssertOrder, IDs: []string{"http://example.org/c", "http://example.org/a"}}, "out of order"},
		{"order missing", Assertion{Type: AssertOrder, IDs: []string{"http://example.org/a", "http://example.org/q"}}, "missing http://example.org/q"},
		{"unmanaged subject", Assertion{Type: AssertValueCount, ID: "http://example.org/q"}, "is not managed"},
		{"unknown type", Assertion{Type: "shape"}, `unknown assertion type "shape"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(result, []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], "assertions[0]")
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestEvaluateAssertions_Dangling(t *testing.T) {
	s := &Scenario{
		Name:        "dangling",
		Description: "d",
		Strategy:    "reference",
		Flow: []Step{{Op: OpMerge, Graph: &graphdoc.Document{Entities: []graphdoc.EntityDoc{
			labeledDoc("http://example.org/a", "", "http://example.org/elsewhere"),
		}}}},
		Assertions: []Assertion{{Type: AssertNoDangling}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "http://example.org/a -> http://example.org/elsewhere")
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertCount,
		Expected: "2 entities",
		Actual:   "1 entities",
		Trace: []TraceEvent{
			{Phase: "flow", Step: 1, Op: OpNew, Subject: "http://example.org/a", Result: "ok", Entity: "http://example.org/a", Created: 1, Version: 1},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: count")
	assert.Contains(t, msg, "Expected: 2 entities")
	assert.Contains(t, msg, "Full trace:")
	assert.Contains(t, msg, "flow#1 new http://example.org/a => ok entity=http://example.org/a created=1 version=1")
}

func TestEvaluateAssertions_NoSnapshot(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: AssertCount}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no snapshot")
}
