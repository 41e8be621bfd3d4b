package partition

import (
	"fmt"

	"github.com/spatialpack/go-rtree/rect"
)

// ExactCount returns the cheapest split of rs into exactly k consecutive
// groups with no bound on group size. It needs the full window-cost matrix
// and fails with ErrUnsupported when the processor cannot provide one.
//
// Classic forward recurrence: the cheapest covering of rs[0..i] with c groups
// extends a (c-1)-group covering of some shorter prefix by one final group.
// O(k*n^2) time, O(n^2) space for the matrix.
func ExactCount(proc Processor, rs []rect.Rectangle, k int) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadBucketCount, k)
	}
	n := len(rs)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if k > n {
		return nil, fmt.Errorf("%w: %d buckets for %d rectangles", ErrInfeasiblePartition, k, n)
	}

	full, err := proc.AllCosts(rs)
	if err != nil {
		return nil, err
	}

	var arena bucketArena
	prevCost := make([]float64, n)
	prevBest := make([]int32, n)
	curCost := make([]float64, n)
	curBest := make([]int32, n)

	for i := 0; i < n; i++ {
		prevCost[i] = full[0][i]
		prevBest[i] = arena.alloc(full[0][i], 0, i, noBucket)
	}

	for c := 2; c <= k; c++ {
		for i := 0; i < n; i++ {
			curBest[i] = noBucket
			curCost[i] = Infeasible
			if i < c-1 {
				// fewer positions than groups
				continue
			}
			bestCost := Infeasible
			bestSplit := -1
			for j := c - 2; j < i; j++ {
				if !Feasible(prevCost[j]) {
					continue
				}
				if cand := prevCost[j] + full[j+1][i]; cand < bestCost {
					bestCost = cand
					bestSplit = j
				}
			}
			if bestSplit < 0 {
				continue
			}
			curCost[i] = bestCost
			curBest[i] = arena.alloc(bestCost, bestSplit+1, i, prevBest[bestSplit])
		}
		prevCost, curCost = curCost, prevCost
		prevBest, curBest = curBest, prevBest
	}

	if prevBest[n-1] == noBucket {
		return nil, fmt.Errorf("%w: %d buckets for %d rectangles", ErrInfeasiblePartition, k, n)
	}
	return arena.distribution(prevBest[n-1]), nil
}
