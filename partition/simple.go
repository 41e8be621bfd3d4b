package partition

import (
	"fmt"
)

// Simple slices n elements into consecutive groups of floor(utilization*B)
// with the remainder in the last group. No costs are consulted; the caller is
// expected to have sorted the input spatially so that consecutive elements
// belong together. The last group may be smaller than any minimum fan-out the
// caller otherwise maintains.
func Simple(n, B int, utilization float64) ([]int, error) {
	if B < 1 {
		return nil, fmt.Errorf("%w: b=1 B=%d", ErrBadBounds, B)
	}
	if utilization <= 0 || utilization > 1 {
		return nil, fmt.Errorf("%w: %v", ErrBadUtilization, utilization)
	}
	if n == 0 {
		return nil, nil
	}
	size := int(utilization * float64(B))
	if size < 1 {
		size = 1
	}
	groups := make([]int, 0, n/size+1)
	for n > size {
		groups = append(groups, size)
		n -= size
	}
	return append(groups, n), nil
}
