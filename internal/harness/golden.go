package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/entitygraph/internal/store"
)

// Render produces the golden form of a scenario run: the trace, one line
// per step, followed by the store dump.
//
//	scenario: cycle
//	trace:
//	  flow#1 merge http://example.org/x => ok entity=http://example.org/x created=2 version=1
//
//	store 00000000-0000-0000-0000-000000000001 (strategy=value, version=1, entities=2)
//	...
func Render(name string, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	b.WriteString("trace:\n")
	for _, ev := range result.Trace {
		fmt.Fprintf(&b, "  %s\n", formatEvent(ev))
	}
	b.WriteString("\n")
	if result.Snapshot != nil {
		b.WriteString(store.FormatString(result.Snapshot))
	}
	return []byte(b.String())
}

// formatEvent renders one trace event.
func formatEvent(ev TraceEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s#%d %s %s => %s", ev.Phase, ev.Step, ev.Op, ev.Subject, ev.Result)
	if ev.Entity != "" {
		fmt.Fprintf(&b, " entity=%s", ev.Entity)
	}
	if ev.Created > 0 {
		fmt.Fprintf(&b, " created=%d", ev.Created)
	}
	if ev.Removed > 0 {
		fmt.Fprintf(&b, " removed=%d", ev.Removed)
	}
	fmt.Fprintf(&b, " version=%d", ev.Version)
	return b.String()
}

// RunWithGolden executes a scenario and compares its rendering against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the rendering doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Render(scenarioName, result))
}
