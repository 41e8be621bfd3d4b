// Package partition computes cost-optimal splits of a rectangle sequence
// into consecutive groups whose sizes lie in a [b, B] fan-out range.
//
// A Processor answers "what does it cost to union the window ending at
// position t" queries; the partitioning algorithms turn those window costs
// into a distribution of group sizes:
//
//   - Gopt: single-pass optimal covering, O(n*B). The production default.
//   - FixedCount: optimal covering with an exact bucket count, sizes still
//     bounded by [b, B]. Used to hit a storage-utilization target.
//   - ExactCount: exact bucket count with unbounded sizes, over the full
//     window-cost matrix. O(k*n^2).
//   - Simple: no optimization, consecutive slices of floor(utilization*B).
//     For input that is already spatially sorted.
//
// All distributions are returned left to right and always sum to n.
package partition
