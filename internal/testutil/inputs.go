// Package testutil provides deterministic input generators for sorting tests.
//
// All generators are seeded so a failing case can be reproduced from its name
// and seed alone.
package testutil

import (
	"fmt"
	"math/rand/v2"
)

// NewRand returns a PCG-backed generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Case is a named input sequence.
type Case struct {
	Name   string
	Values []int
}

// Random returns n values drawn uniformly from [0, limit). Duplicates are likely
// when limit is small.
func Random(r *rand.Rand, n, limit int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = r.IntN(limit)
	}
	return out
}

// Ascending returns 0..n-1.
func Ascending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Descending returns n-1..0.
func Descending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - 1 - i
	}
	return out
}

// Constant returns n copies of v.
func Constant(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Cases returns the degenerate, adversarial and random inputs every algorithm
// must handle: lengths 0, 1 and 2, sorted, reverse-sorted, all-equal, few
// distinct keys, and random lengths up to maxLen.
func Cases(seed uint64, maxLen int) []Case {
	r := NewRand(seed)
	cases := []Case{
		{Name: "empty", Values: []int{}},
		{Name: "single", Values: []int{7}},
		{Name: "pair-sorted", Values: []int{1, 2}},
		{Name: "pair-reversed", Values: []int{2, 1}},
		{Name: "pair-equal", Values: []int{4, 4}},
		{Name: "triple-equal", Values: []int{4, 4, 4}},
		{Name: "example", Values: []int{5, 3, 8, 1, 9, 2}},
	}
	for _, n := range []int{17, 256, maxLen} {
		cases = append(cases,
			Case{Name: fmt.Sprintf("ascending-%d", n), Values: Ascending(n)},
			Case{Name: fmt.Sprintf("descending-%d", n), Values: Descending(n)},
			Case{Name: fmt.Sprintf("constant-%d", n), Values: Constant(n, 3)},
			Case{Name: fmt.Sprintf("fewkeys-%d", n), Values: Random(r, n, 4)},
		)
	}
	for i := 0; i < 8; i++ {
		n := r.IntN(maxLen + 1)
		cases = append(cases, Case{
			Name:   fmt.Sprintf("random-%d-%d", i, n),
			Values: Random(r, n, 4*n+1),
		})
	}
	return cases
}

// Tagged is an element whose Key is compared and whose Tag records its original
// position, so stability can be checked after sorting.
type Tagged struct {
	Key int
	Tag int
}

// TaggedRandom returns n elements with keys in [0, keys) and tags 0..n-1.
func TaggedRandom(r *rand.Rand, n, keys int) []Tagged {
	out := make([]Tagged, n)
	for i := range out {
		out[i] = Tagged{Key: r.IntN(keys), Tag: i}
	}
	return out
}

// CompareKey orders Tagged values by Key only.
func CompareKey(a, b Tagged) int {
	switch {
	case a.Key < b.Key:
		return -1
	case a.Key > b.Key:
		return 1
	default:
		return 0
	}
}
