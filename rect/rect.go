package rect

import (
	"fmt"
	"strings"
)

// Rectangle is a d-dimensional axis-aligned box. Min[i] <= Max[i] holds for
// every dimension of a valid rectangle.
type Rectangle struct {
	Min []float64 `cbor:"1,keyasint"`
	Max []float64 `cbor:"2,keyasint"`
}

// New returns a rectangle spanning [min[i], max[i]] per dimension. The two
// slices are copied.
func New(min, max []float64) (Rectangle, error) {
	if len(min) == 0 || len(min) != len(max) {
		return Rectangle{}, fmt.Errorf("%w: %d min values, %d max values", ErrBadDimensions, len(min), len(max))
	}
	for i := range min {
		if min[i] > max[i] {
			return Rectangle{}, fmt.Errorf("%w: dimension %d has min %v > max %v", ErrMinExceedsMax, i, min[i], max[i])
		}
	}
	r := Rectangle{
		Min: make([]float64, len(min)),
		Max: make([]float64, len(max)),
	}
	copy(r.Min, min)
	copy(r.Max, max)
	return r, nil
}

// Point returns the degenerate rectangle covering exactly the given point.
func Point(coords []float64) (Rectangle, error) {
	return New(coords, coords)
}

// Dims returns the dimension count.
func (r Rectangle) Dims() int {
	return len(r.Min)
}

// Extent returns the length of the rectangle along dimension i.
func (r Rectangle) Extent(i int) float64 {
	return r.Max[i] - r.Min[i]
}

// Center returns the centroid coordinate along dimension i.
func (r Rectangle) Center(i int) float64 {
	return r.Min[i] + (r.Max[i]-r.Min[i])/2
}

// Clone returns a deep copy sharing no storage with r.
func (r Rectangle) Clone() Rectangle {
	c := Rectangle{
		Min: make([]float64, len(r.Min)),
		Max: make([]float64, len(r.Max)),
	}
	copy(c.Min, r.Min)
	copy(c.Max, r.Max)
	return c
}

// Union returns a fresh rectangle covering both r and o. r is not modified.
func (r Rectangle) Union(o Rectangle) Rectangle {
	c := r.Clone()
	c.Extend(o)
	return c
}

// Extend grows r in place so that it covers o. This is the only in-place
// mutator on Rectangle; it exists for the accumulation loops in the cost
// processors where a fresh allocation per step would dominate.
func (r *Rectangle) Extend(o Rectangle) {
	for i := range r.Min {
		if o.Min[i] < r.Min[i] {
			r.Min[i] = o.Min[i]
		}
		if o.Max[i] > r.Max[i] {
			r.Max[i] = o.Max[i]
		}
	}
}

// Contains reports whether o lies entirely within r.
func (r Rectangle) Contains(o Rectangle) bool {
	for i := range r.Min {
		if o.Min[i] < r.Min[i] || o.Max[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// Equal reports whether r and o span the same box.
func (r Rectangle) Equal(o Rectangle) bool {
	if len(r.Min) != len(o.Min) {
		return false
	}
	for i := range r.Min {
		if r.Min[i] != o.Min[i] || r.Max[i] != o.Max[i] {
			return false
		}
	}
	return true
}

// UnionAll returns the bounding box of all given rectangles.
func UnionAll(rs []Rectangle) (Rectangle, error) {
	if len(rs) == 0 {
		return Rectangle{}, ErrEmptyUnion
	}
	acc := rs[0].Clone()
	for _, r := range rs[1:] {
		acc.Extend(r)
	}
	return acc, nil
}

func (r Rectangle) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range r.Min {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g:%g", r.Min[i], r.Max[i])
	}
	sb.WriteByte(']')
	return sb.String()
}
