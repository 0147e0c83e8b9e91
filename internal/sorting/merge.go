package sorting

import "slices"

// Merge sorts data with top-down merge sort. It is stable: on equal keys the
// element from the left run is taken first.
//
// With emit set, runs are merged in place index by index and every write is
// observed. Without emit, each merge fills a temporary buffer and copies it back
// in one step. Both strategies produce identical output.
func Merge[T any](data []T, cmp func(a, b T) int, emit Emit) error {
	if len(data) < 2 {
		return nil
	}
	return mergeSort(data, 0, len(data), cmp, emit)
}

// mergeSort sorts data[start:end).
func mergeSort[T any](data []T, start, end int, cmp func(a, b T) int, emit Emit) error {
	middle := (start + end) / 2

	if middle-start > 1 {
		if err := mergeSort(data, start, middle, cmp, emit); err != nil {
			return err
		}
	}
	if end-middle > 1 {
		if err := mergeSort(data, middle, end, cmp, emit); err != nil {
			return err
		}
	}

	if emit != nil {
		return mergeObserved(data, start, middle, end, cmp, emit)
	}
	mergeBuffered(data, start, middle, end, cmp)
	return nil
}

// mergeObserved merges data[start:middle) and data[middle:end) directly into
// data, emitting after each write. Once emit fails the merge still completes,
// silently, so the slice stays a permutation of its input.
func mergeObserved[T any](data []T, start, middle, end int, cmp func(a, b T) int, emit Emit) error {
	left := slices.Clone(data[start:middle])
	right := slices.Clone(data[middle:end])

	var err error
	write := func(k int, v T) {
		data[k] = v
		if err == nil {
			err = emit(Highlight{Index: k, Role: RolePlacement})
		}
	}

	i, j, k := 0, 0, start
	for i < len(left) && j < len(right) {
		if cmp(right[j], left[i]) < 0 {
			write(k, right[j])
			j++
		} else {
			write(k, left[i])
			i++
		}
		k++
	}
	for ; i < len(left); i++ {
		write(k, left[i])
		k++
	}
	for ; j < len(right); j++ {
		write(k, right[j])
		k++
	}
	return err
}

// mergeBuffered merges the two runs into a scratch buffer and writes it back.
func mergeBuffered[T any](data []T, start, middle, end int, cmp func(a, b T) int) {
	buf := make([]T, 0, end-start)
	left := data[start:middle]
	right := data[middle:end]

	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if cmp(right[j], left[i]) < 0 {
			buf = append(buf, right[j])
			j++
		} else {
			buf = append(buf, left[i])
			i++
		}
	}
	buf = append(buf, left[i:]...)
	buf = append(buf, right[j:]...)

	copy(data[start:end], buf)
}
