package engine

import (
	"cmp"
	"strings"

	"github.com/roach88/sortviz/internal/sorting"
)

// Algorithm names one of the five sorting procedures.
type Algorithm string

const (
	Selection Algorithm = "selection"
	Insertion Algorithm = "insertion"
	Merge     Algorithm = "merge"
	Quick     Algorithm = "quick"
	Heap      Algorithm = "heap"
)

// algorithmOrder is the presentation order used by Algorithms and the renderer.
var algorithmOrder = []Algorithm{Selection, Insertion, Merge, Quick, Heap}

var algorithmFuncs = map[Algorithm]sorting.Func[int]{
	Selection: sorting.Selection[int],
	Insertion: sorting.Insertion[int],
	Merge:     sorting.Merge[int],
	Quick:     sorting.Quick[int],
	Heap:      sorting.Heap[int],
}

// Algorithms returns all supported algorithms in presentation order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithmOrder))
	copy(out, algorithmOrder)
	return out
}

// ParseAlgorithm resolves a case-insensitive algorithm name.
// An optional "sort" suffix is accepted ("quicksort", "heap_sort").
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(strings.TrimSuffix(key, "sort"), "_")
	key = strings.TrimSuffix(key, "-")
	alg := Algorithm(key)
	if _, ok := algorithmFuncs[alg]; !ok {
		return "", NewUnknownAlgorithmError(name)
	}
	return alg, nil
}

// Valid reports whether a names a supported algorithm.
func (a Algorithm) Valid() bool {
	_, ok := algorithmFuncs[a]
	return ok
}

func (a Algorithm) String() string {
	return string(a)
}

// compareInts is the element order used by the engine.
func compareInts(a, b int) int {
	return cmp.Compare(a, b)
}
