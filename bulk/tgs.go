package bulk

import (
	"math"

	"github.com/spatialpack/go-rtree/rect"
)

// packTGS splits one chunk top-down: at every step, try each dimension's
// centroid order, evaluate the cost of cutting at every multiple of the
// target subtree size, and bisect at the globally cheapest cut.
func (b *Builder) packTGS(chunk []Entry, bmax int, emit func([]Entry) error) error {
	return b.tgsRecurse(chunk, -1, bmax, emit)
}

// tgsRecurse bisects es. sortedDim names the dimension es is currently
// ordered by, -1 for unknown; it saves a re-sort when the winning dimension
// is already in place.
func (b *Builder) tgsRecurse(es []Entry, sortedDim, bmax int, emit func([]Entry) error) error {
	n := len(es)
	if n == 0 {
		return nil
	}
	if n <= bmax {
		return emit(es)
	}

	// M approximates the size of one maximal subtree below this node:
	// B^h for h one less than the height still needed for n entries.
	h := int(math.Ceil(math.Log(float64(n))/math.Log(float64(bmax)))) - 1
	m := int(math.Round(math.Pow(float64(bmax), float64(h))))
	if m < 1 {
		m = 1
	}
	if m >= n {
		m = (n + 1) / 2
	}

	bestCost := math.Inf(1)
	bestDim := -1
	bestCut := -1
	fwd := make([]rect.Rectangle, n)
	bwd := make([]rect.Rectangle, n)
	for dim := 0; dim < b.dims; dim++ {
		if dim != sortedDim {
			if err := b.sortEntriesByCenter(es, dim); err != nil {
				return err
			}
			sortedDim = dim
		}

		acc := es[0].Box.Clone()
		fwd[0] = acc.Clone()
		for i := 1; i < n; i++ {
			acc.Extend(es[i].Box)
			fwd[i] = acc.Clone()
		}
		acc = es[n-1].Box.Clone()
		bwd[n-1] = acc.Clone()
		for i := n - 2; i >= 0; i-- {
			acc.Extend(es[i].Box)
			bwd[i] = acc.Clone()
		}

		for cut := m; cut < n; cut += m {
			c := b.opts.Cost(fwd[cut-1]) + b.opts.Cost(bwd[cut])
			if c < bestCost {
				bestCost = c
				bestDim = dim
				bestCut = cut
			}
		}
	}

	if bestCut < 0 {
		// cannot happen while m < n; split down the middle if it ever does
		bestDim = sortedDim
		bestCut = n / 2
	}
	if sortedDim != bestDim {
		if err := b.sortEntriesByCenter(es, bestDim); err != nil {
			return err
		}
	}

	if err := b.tgsRecurse(es[:bestCut], bestDim, bmax, emit); err != nil {
		return err
	}
	return b.tgsRecurse(es[bestCut:], bestDim, bmax, emit)
}
