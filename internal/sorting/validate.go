package sorting

import (
	"cmp"
	"slices"
)

// IsValidSort reports whether result is exactly the ascending permutation of
// original. Neither argument is modified.
func IsValidSort[T cmp.Ordered](original, result []T) bool {
	if len(original) != len(result) {
		return false
	}
	want := slices.Clone(original)
	slices.Sort(want)
	return slices.Equal(want, result)
}

// IsSorted reports whether data is in non-decreasing order under cmp.
func IsSorted[T any](data []T, cmp func(a, b T) int) bool {
	for i := 1; i < len(data); i++ {
		if cmp(data[i], data[i-1]) < 0 {
			return false
		}
	}
	return true
}
