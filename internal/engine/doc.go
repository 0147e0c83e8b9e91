// Package engine implements the sortviz sorting engine.
//
// The engine owns one mutable integer sequence and runs the algorithms of
// package sorting over it. It is the only component with behavior worth
// specifying; renderers and CLIs drive it through the Controller interface and
// watch it through an Observer.
//
// ARCHITECTURE:
//
// Observed vs Fast Mode:
// Each run is either observed (State.Observe is true and an Observer is set) or
// fast. In observed mode the engine builds one emit closure per run that stamps
// a step number, checks the context and calls the observer synchronously. In
// fast mode no closure exists and the algorithms take their uninstrumented
// paths; the observer is called zero times.
//
// Run Lifecycle:
//  1. Sorted flag cleared, run id generated
//  2. Algorithm executes under an explicit start/stop measurement
//  3. RunRecord reported to the TimingSink (completed or aborted)
//  4. On success: Sorted set before the report, final Done event delivered
//     afterwards (observed mode only)
//
// Abort:
// An observer error or a cancelled context stops the algorithm at the current
// step. Run returns a RuntimeError with code ABORTED wrapping the cause. The
// sequence stays a permutation of its input and Sorted stays false.
//
// CRITICAL PATTERNS:
//
// No Ambient State:
// All state lives in an Engine (or a State value); there are no package globals
// besides the immutable algorithm table.
//
// Determinism:
// For a given sequence and algorithm the emitted event sequence is identical on
// every run. Randomness is confined to Initialize/Regenerate and is seedable.
//
// Single Caller:
// Run is synchronous and not re-entrant. An Engine must not be used from more
// than one goroutine at a time.
package engine
