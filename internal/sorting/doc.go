// Package sorting implements the five instrumented sorting algorithms behind sortviz.
//
// Every algorithm sorts a slice in place using a three-way compare function and
// accepts an optional Emit callback:
//
//   - emit == nil: fast mode. No observation calls and no per-step allocations.
//   - emit != nil: observed mode. emit is invoked synchronously after each unit of
//     interesting change with the indices that changed, tagged with a Role.
//
// A non-nil error returned by emit stops the algorithm at that step and is returned
// unchanged. The slice is left as a permutation of its input (possibly partially
// sorted); no element is lost or duplicated by an early stop.
//
// Observation points:
//
//	Selection  once per scan step      (i: placement, j: candidate, min: tracker)
//	Insertion  once per shift          (destination: placement)
//	Merge      once per write (observed merge only)   (written index: placement)
//	Quick      once per partition swap (boundary: candidate, end: tracker)
//	           once per pivot placement (boundary: placement, end: tracker)
//	Heap       once per sift-down entry (node: candidate)
//
// The sequence of emissions is fully determined by the input, so a recorded
// trace can be replayed and compared byte-for-byte.
package sorting
