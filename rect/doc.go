// Package rect provides the d-dimensional axis-aligned rectangle value type
// used throughout the bulk loader, together with the cost functions that
// drive partitioning decisions.
//
// Rectangle is a value type. Union returns a fresh rectangle; Extend is the
// only in-place mutator and exists for the hot accumulation loops in the
// partitioners. Call sites that alias a rectangle across Extend calls must
// Clone first.
package rect
