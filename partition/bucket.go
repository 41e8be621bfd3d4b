package partition

// The optimal algorithms record their choices as chains of buckets running
// backwards from the last covered position to position zero. Buckets live in
// an arena and link to their predecessor by index, so extending a chain is an
// append and no ownership cycles exist.

const noBucket = int32(-1)

type bucket struct {
	cost  float64
	start int32
	end   int32
	prev  int32 // arena index of the predecessor bucket, noBucket for the first
	count int32 // buckets in the chain up to and including this one
}

type bucketArena struct {
	buckets []bucket
}

// alloc appends a bucket covering [start, end] whose chain continues at prev.
func (a *bucketArena) alloc(cost float64, start, end int, prev int32) int32 {
	count := int32(1)
	if prev != noBucket {
		count = a.buckets[prev].count + 1
	}
	a.buckets = append(a.buckets, bucket{
		cost:  cost,
		start: int32(start),
		end:   int32(end),
		prev:  prev,
		count: count,
	})
	return int32(len(a.buckets) - 1)
}

// distribution walks the chain ending at h and returns the group sizes in
// left-to-right order, the reverse of traversal order.
func (a *bucketArena) distribution(h int32) []int {
	if h == noBucket {
		return nil
	}
	sizes := make([]int, a.buckets[h].count)
	for i := len(sizes) - 1; i >= 0; i-- {
		bk := a.buckets[h]
		sizes[i] = int(bk.end - bk.start + 1)
		h = bk.prev
	}
	return sizes
}
