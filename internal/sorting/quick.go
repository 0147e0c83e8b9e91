package sorting

// Quick sorts data with recursive quicksort using the Lomuto partition scheme.
// The pivot is always the last element of the active range, so sorted and
// reverse-sorted input hit the quadratic worst case.
func Quick[T any](data []T, cmp func(a, b T) int, emit Emit) error {
	if len(data) < 2 {
		return nil
	}
	return quickSort(data, 0, len(data)-1, cmp, emit)
}

// quickSort sorts the inclusive range data[start..end].
func quickSort[T any](data []T, start, end int, cmp func(a, b T) int, emit Emit) error {
	if start >= end {
		return nil
	}

	split, err := partition(data, start, end, cmp, emit)
	if err != nil {
		return err
	}

	if err := quickSort(data, start, split-1, cmp, emit); err != nil {
		return err
	}
	return quickSort(data, split+1, end, cmp, emit)
}

// partition moves every element strictly less than the pivot data[end] left of
// a growing boundary, then swaps the pivot onto the boundary and returns it.
func partition[T any](data []T, start, end int, cmp func(a, b T) int, emit Emit) (int, error) {
	pivot := data[end]
	boundary := start

	for j := start; j < end; j++ {
		if cmp(data[j], pivot) >= 0 {
			continue
		}
		if boundary != j {
			swap(data, boundary, j)
			if emit != nil {
				err := emit(
					Highlight{Index: boundary, Role: RoleCandidate},
					Highlight{Index: end, Role: RoleTracker},
				)
				if err != nil {
					return 0, err
				}
			}
		}
		boundary++
	}

	swap(data, boundary, end)
	if emit != nil {
		err := emit(
			Highlight{Index: boundary, Role: RolePlacement},
			Highlight{Index: end, Role: RoleTracker},
		)
		if err != nil {
			return 0, err
		}
	}
	return boundary, nil
}
