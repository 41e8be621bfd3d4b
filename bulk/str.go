package bulk

import (
	"math"

	"github.com/spatialpack/go-rtree/partition"
)

// packSTR tiles one chunk sort-tile-recursive style: sort by the current
// dimension, carve the chunk into equal slabs, recurse into each slab with
// the next dimension in the cycle. The base case tiles a sorted slab into
// consecutive fixed-size nodes.
func (b *Builder) packSTR(chunk []Entry, bmax int, emit func([]Entry) error) error {
	order := b.opts.DimOrder
	if len(order) == 0 {
		order = make([]int, b.dims)
		for i := range order {
			order[i] = i
		}
	}
	return b.strRecurse(chunk, order, 0, len(order), bmax, emit)
}

func (b *Builder) strRecurse(es []Entry, order []int, oi, remaining, bmax int, emit func([]Entry) error) error {
	n := len(es)
	if n == 0 {
		return nil
	}
	if n <= bmax {
		return emit(es)
	}

	dim := order[oi%len(order)]
	if err := b.sortEntriesByCenter(es, dim); err != nil {
		return err
	}

	if remaining <= 1 {
		return b.tile(es, bmax, emit)
	}

	nodeSize := int(b.opts.Utilization * float64(bmax))
	if nodeSize < 1 {
		nodeSize = 1
	}
	need := (n + nodeSize - 1) / nodeSize
	splits := int(math.Floor(math.Pow(float64(need), 1/float64(b.dims))))
	if splits < 1 {
		splits = 1
	}
	slab := (n + splits - 1) / splits

	for start := 0; start < n; start += slab {
		end := start + slab
		if end > n {
			end = n
		}
		if err := b.strRecurse(es[start:end], order, oi+1, remaining-1, bmax, emit); err != nil {
			return err
		}
	}
	return nil
}

// tile slices a sorted run into consecutive nodes at the target utilization.
func (b *Builder) tile(es []Entry, bmax int, emit func([]Entry) error) error {
	dist, err := partition.Simple(len(es), bmax, b.opts.Utilization)
	if err != nil {
		return err
	}
	start := 0
	for _, size := range dist {
		if err := emit(es[start : start+size]); err != nil {
			return err
		}
		start += size
	}
	return nil
}
