package ordering

import (
	"fmt"

	"github.com/forPelevin/vid2article/internal/errs"
)

// Validate checks that indices is a permutation of [0, n).
func Validate(indices []int, n int) error {
	if len(indices) != n {
		return &errs.OrderingError{Want: n, Indices: indices}
	}
	seen := make([]bool, n)
	for _, i := range indices {
		if i < 0 || i >= n {
			return &errs.OrderingError{Want: n, Indices: indices, Reason: fmt.Sprintf("index %d out of range [0,%d)", i, n)}
		}
		if seen[i] {
			return &errs.OrderingError{Want: n, Indices: indices, Reason: fmt.Sprintf("index %d repeated", i)}
		}
		seen[i] = true
	}
	return nil
}

// Apply returns items reordered by indices. indices must be a valid permutation.
func Apply[T any](items []T, indices []int) ([]T, error) {
	if err := Validate(indices, len(items)); err != nil {
		return nil, err
	}
	out := make([]T, len(indices))
	for pos, i := range indices {
		out[pos] = items[i]
	}
	return out, nil
}
