package harness

import (
	"github.com/roach88/sortviz/internal/engine"
	"github.com/roach88/sortviz/internal/sorting"
)

// TraceEvent is one recorded observer callback together with the sequence as
// the observer saw it.
type TraceEvent struct {
	Seq        int64               `json:"seq"`
	Snapshot   []int               `json:"snapshot"`
	Highlights []sorting.Highlight `json:"highlights,omitempty"`
	Done       bool                `json:"done,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if all expect clauses and built-in checks hold.
	Pass bool `json:"pass"`

	Algorithm engine.Algorithm `json:"algorithm"`
	Input     []int            `json:"input"`
	Final     []int            `json:"final"`
	Sorted    bool             `json:"sorted"`
	Aborted   bool             `json:"aborted"`

	// Steps is the number of step events, excluding the done event.
	Steps int64 `json:"steps"`

	// Trace contains all observer callbacks in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Record is the run record the engine reported.
	Record engine.RunRecord `json:"-"`
}

// NewResult creates a new passing result.
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
