package rect

// CostFunc evaluates a rectangle to the scalar the partitioners minimize.
// Lower is better.
type CostFunc func(Rectangle) float64

// Volume returns the d-dimensional volume of r.
func Volume(r Rectangle) float64 {
	v := 1.0
	for i := range r.Min {
		v *= r.Max[i] - r.Min[i]
	}
	return v
}

// Margin returns the sum of the extents of r, the d-dimensional analogue of
// half the perimeter.
func Margin(r Rectangle) float64 {
	m := 0.0
	for i := range r.Min {
		m += r.Max[i] - r.Min[i]
	}
	return m
}

// ExtendedVolume returns a cost function computing the rectangle volume
// inflated by the given per-dimension query footprint:
//
//	cost = prod_i (extent_i + footprint_i)
//
// The footprint models the expected side lengths of future window queries, so
// the cost approximates the probability that a query intersects the node. A
// nil footprint degenerates to Volume. Footprint length must match the
// dimension count of the rectangles evaluated; this is not checked per call.
func ExtendedVolume(footprint []float64) CostFunc {
	if footprint == nil {
		return Volume
	}
	return func(r Rectangle) float64 {
		v := 1.0
		for i := range r.Min {
			v *= r.Max[i] - r.Min[i] + footprint[i]
		}
		return v
	}
}
