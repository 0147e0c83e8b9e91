package sorting

// Selection sorts data by repeatedly selecting the minimum of the unsorted tail.
// It always performs n(n-1)/2 comparisons.
func Selection[T any](data []T, cmp func(a, b T) int, emit Emit) error {
	n := len(data)
	if n < 2 {
		return nil
	}

	for i := 0; i < n; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			if cmp(data[j], data[minIdx]) < 0 {
				minIdx = j
			}
			if emit != nil {
				err := emit(
					Highlight{Index: i, Role: RolePlacement},
					Highlight{Index: j, Role: RoleCandidate},
					Highlight{Index: minIdx, Role: RoleTracker},
				)
				if err != nil {
					return err
				}
			}
		}
		swap(data, i, minIdx)
	}
	return nil
}
