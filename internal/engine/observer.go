package engine

import "github.com/roach88/sortviz/internal/sorting"

// Event is one observation delivered to an Observer.
type Event struct {
	// RunID identifies the run that produced the event.
	RunID string

	// Seq is the 1-based index of this callback within the run.
	Seq int64

	// Algorithm is the running algorithm.
	Algorithm Algorithm

	// Highlights lists 0-3 indices of interest with their roles.
	// Empty on the final Done event.
	Highlights []sorting.Highlight

	// Done is true only on the final event of a completed run.
	Done bool
}

// Observer receives observation events synchronously from a running sort.
//
// The algorithm does not advance until Observe returns. Returning a non-nil
// error aborts the sort; return ErrStop for a user-initiated stop.
type Observer interface {
	Observe(view View, ev Event) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(view View, ev Event) error

// Observe calls f(view, ev).
func (f ObserverFunc) Observe(view View, ev Event) error {
	return f(view, ev)
}
