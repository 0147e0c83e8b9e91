package harness

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/roach88/sortviz/internal/sorting"
)

// AssertionError is returned when a check fails.
type AssertionError struct {
	Type     string // Check name for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s (expected %s, got %s)", e.Type, e.Expected, e.Actual)
}

// CheckInvariants applies the checks every result must pass regardless of the
// scenario's expect block. Returns one message per failed check.
func CheckInvariants(r *Result) []string {
	checks := []func(*Result) error{
		assertPermutation,
		assertOrdered,
		assertSeqContiguous,
		assertDoneEvent,
	}
	return collect(r, checks)
}

// EvaluateExpectations compares r against exp. Returns one message per
// mismatch.
func EvaluateExpectations(exp Expectation, r *Result) []string {
	checks := []func(*Result) error{
		func(r *Result) error { return assertFinal(exp, r) },
		func(r *Result) error { return assertSorted(exp, r) },
		func(r *Result) error { return assertAborted(exp, r) },
		func(r *Result) error { return assertSteps(exp, r) },
	}
	return collect(r, checks)
}

func collect(r *Result, checks []func(*Result) error) []string {
	var msgs []string
	for _, check := range checks {
		if err := check(r); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

func assertPermutation(r *Result) error {
	want := slices.Clone(r.Input)
	got := slices.Clone(r.Final)
	slices.Sort(want)
	slices.Sort(got)
	if !slices.Equal(want, got) {
		return &AssertionError{
			Type:     "permutation",
			Expected: fmt.Sprintf("a permutation of %v", r.Input),
			Actual:   fmt.Sprintf("%v", r.Final),
		}
	}
	return nil
}

func assertOrdered(r *Result) error {
	if r.Aborted {
		if r.Sorted {
			return &AssertionError{Type: "sorted_flag", Expected: "false after abort", Actual: "true"}
		}
		return nil
	}
	if !r.Sorted {
		return &AssertionError{Type: "sorted_flag", Expected: "true after completion", Actual: "false"}
	}
	if !sorting.IsSorted(r.Final, cmp.Compare[int]) {
		return &AssertionError{
			Type:     "ordered",
			Expected: "non-decreasing final sequence",
			Actual:   fmt.Sprintf("%v", r.Final),
		}
	}
	return nil
}

func assertSeqContiguous(r *Result) error {
	for i, ev := range r.Trace {
		if ev.Seq != int64(i+1) {
			return &AssertionError{
				Type:     "seq",
				Expected: fmt.Sprintf("event %d to have seq %d", i, i+1),
				Actual:   fmt.Sprintf("seq %d", ev.Seq),
			}
		}
	}
	return nil
}

func assertDoneEvent(r *Result) error {
	var steps int64
	for i, ev := range r.Trace {
		if !ev.Done {
			steps++
			continue
		}
		if r.Aborted || i != len(r.Trace)-1 {
			return &AssertionError{
				Type:     "done_event",
				Expected: "done only on the last event of a completed run",
				Actual:   fmt.Sprintf("done at seq %d of %d", ev.Seq, len(r.Trace)),
			}
		}
	}
	if !r.Aborted && len(r.Trace) > 0 && !r.Trace[len(r.Trace)-1].Done {
		return &AssertionError{Type: "done_event", Expected: "a final done event", Actual: "none"}
	}
	if steps != r.Steps {
		return &AssertionError{
			Type:     "step_count",
			Expected: fmt.Sprintf("%d step events reported", steps),
			Actual:   fmt.Sprintf("%d", r.Steps),
		}
	}
	return nil
}

func assertFinal(exp Expectation, r *Result) error {
	if exp.Final == nil || slices.Equal(exp.Final, r.Final) {
		return nil
	}
	return &AssertionError{
		Type:     "final",
		Expected: fmt.Sprintf("%v", exp.Final),
		Actual:   fmt.Sprintf("%v", r.Final),
	}
}

func assertSorted(exp Expectation, r *Result) error {
	if exp.Sorted == nil || *exp.Sorted == r.Sorted {
		return nil
	}
	return &AssertionError{
		Type:     "sorted",
		Expected: fmt.Sprintf("%t", *exp.Sorted),
		Actual:   fmt.Sprintf("%t", r.Sorted),
	}
}

func assertAborted(exp Expectation, r *Result) error {
	if exp.Aborted == r.Aborted {
		return nil
	}
	return &AssertionError{
		Type:     "aborted",
		Expected: fmt.Sprintf("%t", exp.Aborted),
		Actual:   fmt.Sprintf("%t", r.Aborted),
	}
}

func assertSteps(exp Expectation, r *Result) error {
	if exp.Steps != nil && *exp.Steps != r.Steps {
		return &AssertionError{
			Type:     "steps",
			Expected: fmt.Sprintf("%d", *exp.Steps),
			Actual:   fmt.Sprintf("%d", r.Steps),
		}
	}
	if r.Steps < exp.MinSteps {
		return &AssertionError{
			Type:     "min_steps",
			Expected: fmt.Sprintf("at least %d", exp.MinSteps),
			Actual:   fmt.Sprintf("%d", r.Steps),
		}
	}
	return nil
}
