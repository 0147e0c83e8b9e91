package sorting

// Heap sorts data with in-place heapsort: build a max-heap, then repeatedly move
// the root behind the shrinking heap.
func Heap[T any](data []T, cmp func(a, b T) int, emit Emit) error {
	n := len(data)
	if n < 2 {
		return nil
	}

	for i := n/2 - 1; i >= 0; i-- {
		if err := siftDown(data, i, n, cmp, emit); err != nil {
			return err
		}
	}

	for end := n - 1; end > 0; end-- {
		swap(data, 0, end)
		if err := siftDown(data, 0, end, cmp, emit); err != nil {
			return err
		}
	}
	return nil
}

// siftDown restores the max-heap property below index within data[:length].
// Comparisons are strict, so a node equal to its larger child stays put and the
// recursion ends; equal keys can never cycle.
func siftDown[T any](data []T, index, length int, cmp func(a, b T) int, emit Emit) error {
	if emit != nil {
		if err := emit(Highlight{Index: index, Role: RoleCandidate}); err != nil {
			return err
		}
	}

	left := 2*index + 1
	if left >= length {
		return nil
	}

	largest := index
	if cmp(data[left], data[largest]) > 0 {
		largest = left
	}
	if right := left + 1; right < length && cmp(data[right], data[largest]) > 0 {
		largest = right
	}
	if largest == index {
		return nil
	}

	swap(data, index, largest)
	return siftDown(data, largest, length, cmp, emit)
}
