// Package bulk builds a packed R-tree from a stream of payload objects,
// level by level, without holding more than one in-memory chunk of the
// current level at a time.
//
// Each pass reads the current level in chunks, splits every chunk into
// groups with the configured strategy, persists one node per group through
// the storage collaborator and appends an (id, bounding box) summary to the
// level stream. The stream then becomes the input of the next pass, one tree
// level higher, until a pass produces a single node: the root.
//
// Strategies:
//
//   - StrategyGOPT (default): cost-optimal grouping per chunk.
//   - StrategyFixedCount: cost-optimal with a storage-utilization target.
//   - StrategySimple: plain slicing, for pre-sorted input.
//   - StrategySTR: recursive sort-and-tile across dimensions.
//   - StrategyTGS: greedy top-down binary splits at the cheapest cut.
//
// Memory use is bounded by the partition size and the external-sort buffer;
// the input never needs to fit in memory.
package bulk
