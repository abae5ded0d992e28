package harness

import (
	"github.com/roach88/entitygraph/internal/store"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Phase   string `json:"phase"` // "setup" or "flow"
	Step    int    `json:"step"`
	Op      string `json:"op"`
	Subject string `json:"subject"`           // identity named by the step
	Result  string `json:"result"`            // "ok" or an error code
	Entity  string `json:"entity,omitempty"`  // identity of the returned entity
	Handle  string `json:"handle,omitempty"`  // handle of the returned entity
	Created int    `json:"created"`           // entities added by the step
	Removed int    `json:"removed,omitempty"` // entities removed by the step
	Version int64  `json:"version"`           // store version after the step
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// Trace lists the executed steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Snapshot is the final state of the store.
	Snapshot *store.Snapshot `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a trace event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
