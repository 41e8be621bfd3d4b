package partition

import (
	"fmt"

	"github.com/spatialpack/go-rtree/rect"
)

// Gopt returns a cost-minimal split of rs into consecutive groups of size in
// [b, B], as a left-to-right slice of group sizes summing to len(rs).
//
// One forward pass maintains, for every prefix end position t, the cheapest
// covering of rs[0..t]. Each position considers every admissible window
// length; window lengths are scanned in increasing order and only a strictly
// smaller cost replaces the incumbent, so among equally cheap coverings the
// one whose final group is smaller wins. Downstream node boundaries depend on
// that tie-break; do not reorder the scan.
//
// O(n*B) time, O(n) working state beyond the bucket arena.
func Gopt(proc Processor, rs []rect.Rectangle, b, B int) ([]int, error) {
	if err := checkBounds(b, B); err != nil {
		return nil, err
	}
	n := len(rs)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	var arena bucketArena
	// best[t] is the final bucket of the cheapest covering of rs[0..t],
	// noBucket where no covering exists. cost[t] caches its total cost.
	best := make([]int32, n)
	cost := make([]float64, n)
	for t := 0; t < n; t++ {
		best[t] = noBucket
		cost[t] = Infeasible
	}

	for t := b - 1; t < n; t++ {
		wc := proc.WindowCosts(rs, b, B, t)

		bestCost := Infeasible
		bestLen := -1
		bestPrev := noBucket
		for j := b - 1; j <= B-1 && j <= t; j++ {
			if !Feasible(wc[j]) {
				continue
			}
			var cand float64
			prev := noBucket
			if t-j == 0 {
				// one group covers the whole prefix
				cand = wc[j]
			} else {
				p := t - j - 1
				if !Feasible(cost[p]) {
					continue
				}
				cand = cost[p] + wc[j]
				prev = best[p]
			}
			if cand < bestCost {
				bestCost = cand
				bestLen = j
				bestPrev = prev
			}
		}
		if bestLen < 0 {
			continue
		}
		best[t] = arena.alloc(bestCost, t-bestLen, t, bestPrev)
		cost[t] = bestCost
	}

	if best[n-1] == noBucket {
		return nil, fmt.Errorf("%w: n=%d b=%d B=%d", ErrInfeasiblePartition, n, b, B)
	}
	return arena.distribution(best[n-1]), nil
}

func checkBounds(b, B int) error {
	if b < 1 || B < b {
		return fmt.Errorf("%w: b=%d B=%d", ErrBadBounds, b, B)
	}
	return nil
}
