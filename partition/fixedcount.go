package partition

import (
	"fmt"
	"math"

	"github.com/spatialpack/go-rtree/rect"
)

// TargetCount returns the bucket count that hits the given storage
// utilization for n rectangles and maximum group size B:
// ceil(n / (utilization*B)).
func TargetCount(n, B int, utilization float64) (int, error) {
	if utilization <= 0 || utilization > 1 {
		return 0, fmt.Errorf("%w: %v", ErrBadUtilization, utilization)
	}
	if n <= 0 || B <= 0 {
		return 0, fmt.Errorf("%w: n=%d B=%d", ErrBadBucketCount, n, B)
	}
	return int(math.Ceil(float64(n) / (utilization * float64(B)))), nil
}

// FixedCount returns the cheapest split of rs into exactly count consecutive
// groups, each of size in [b, B]. ErrInfeasiblePartition is returned when no
// such split exists (count*b > n or count*B < n).
//
// Row i of the working matrix holds, per end position j, the cheapest
// covering of rs[0..j] with exactly i+1 groups; cells with no valid covering
// stay Infeasible and are skipped by later rows. O(count*n*B) time; a
// memoizing Processor reduces the window-cost work to one pass per end
// position.
func FixedCount(proc Processor, rs []rect.Rectangle, b, B, count int) ([]int, error) {
	if err := checkBounds(b, B); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadBucketCount, count)
	}
	n := len(rs)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if count*b > n || count*B < n {
		return nil, fmt.Errorf("%w: n=%d b=%d B=%d count=%d", ErrInfeasiblePartition, n, b, B, count)
	}

	var arena bucketArena
	prevCost := make([]float64, n)
	prevBest := make([]int32, n)
	curCost := make([]float64, n)
	curBest := make([]int32, n)

	// one bucket: a single group must cover the whole prefix
	for j := 0; j < n; j++ {
		prevBest[j] = noBucket
		prevCost[j] = Infeasible
		if j >= b-1 && j <= B-1 {
			wc := proc.WindowCosts(rs, b, B, j)
			if Feasible(wc[j]) {
				prevCost[j] = wc[j]
				prevBest[j] = arena.alloc(wc[j], 0, j, noBucket)
			}
		}
	}

	for i := 1; i < count; i++ {
		for j := 0; j < n; j++ {
			curBest[j] = noBucket
			curCost[j] = Infeasible

			wc := proc.WindowCosts(rs, b, B, j)
			bestCost := Infeasible
			bestLen := -1
			for w := b - 1; w <= B-1 && w < j; w++ {
				p := j - w - 1
				if !Feasible(prevCost[p]) || !Feasible(wc[w]) {
					continue
				}
				if cand := prevCost[p] + wc[w]; cand < bestCost {
					bestCost = cand
					bestLen = w
				}
			}
			if bestLen < 0 {
				continue
			}
			curCost[j] = bestCost
			curBest[j] = arena.alloc(bestCost, j-bestLen, j, prevBest[j-bestLen-1])
		}
		prevCost, curCost = curCost, prevCost
		prevBest, curBest = curBest, prevBest
	}

	if prevBest[n-1] == noBucket {
		return nil, fmt.Errorf("%w: n=%d b=%d B=%d count=%d", ErrInfeasiblePartition, n, b, B, count)
	}
	return arena.distribution(prevBest[n-1]), nil
}
