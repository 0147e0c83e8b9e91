package engine

import (
	"math"
	"math/rand/v2"
	"slices"
)

// State is the complete engine state as a plain value.
//
// INVARIANT: Sorted implies Sequence is in non-decreasing order. The converse
// need not hold; Sorted is advisory and is never recomputed from Sequence.
type State struct {
	Sequence []int
	Sorted   bool
	Observe  bool
}

// Len returns the length of the sequence.
func (s State) Len() int {
	return len(s.Sequence)
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Sequence = slices.Clone(s.Sequence)
	if s.Sequence == nil {
		s.Sequence = []int{}
	}
	return s
}

// Initialize builds a fresh state of size distinct values sampled without
// replacement from [0, 4*size).
//
// Returns an INVALID_SIZE RuntimeError if size <= 0 or 4*size overflows int.
func Initialize(size int, observe bool, rng *rand.Rand) (State, error) {
	if size <= 0 || size > math.MaxInt/4 {
		return State{}, NewInvalidSizeError(size)
	}
	return State{
		Sequence: sample(rng, size),
		Sorted:   false,
		Observe:  observe,
	}, nil
}

// sample draws size distinct values from [0, 4*size) with a partial
// Fisher-Yates shuffle over a virtual identity array. Only displaced slots are
// materialized, so memory stays O(size).
func sample(rng *rand.Rand, size int) []int {
	universe := 4 * size
	displaced := make(map[int]int, size)
	at := func(i int) int {
		if v, ok := displaced[i]; ok {
			return v
		}
		return i
	}

	out := make([]int, size)
	for i := 0; i < size; i++ {
		j := i + rng.IntN(universe-i)
		out[i] = at(j)
		displaced[j] = at(i)
	}
	return out
}

// View is a read-only window onto the engine's sequence, handed to observers.
// It is only valid for the duration of the observer call.
type View struct {
	data []int
}

// Len returns the sequence length.
func (v View) Len() int {
	return len(v.data)
}

// At returns the element at index i.
func (v View) At(i int) int {
	return v.data[i]
}

// Values returns a copy of the sequence.
func (v View) Values() []int {
	return slices.Clone(v.data)
}
