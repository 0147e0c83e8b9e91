package sorting

// Insertion sorts data by shifting each element left past all strictly greater
// predecessors. Already sorted input costs n-1 comparisons and no shifts.
func Insertion[T any](data []T, cmp func(a, b T) int, emit Emit) error {
	n := len(data)
	if n < 2 {
		return nil
	}

	for i := 1; i < n; i++ {
		cur := data[i]
		j := i
		for j > 0 && cmp(cur, data[j-1]) < 0 {
			data[j] = data[j-1]
			j--
			if emit != nil {
				if err := emit(Highlight{Index: j, Role: RolePlacement}); err != nil {
					// The held element must land somewhere or it is lost.
					data[j] = cur
					return err
				}
			}
		}
		data[j] = cur
	}
	return nil
}
