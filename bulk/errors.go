package bulk

import "errors"

// configuration errors, rejected before any I/O
var (
	ErrNilStore         = errors.New("a storage collaborator is required")
	ErrNilSerializer    = errors.New("a payload serializer is required")
	ErrBadDims          = errors.New("dimension count must be at least 1")
	ErrBadBlockSize     = errors.New("block size leaves no room for entries")
	ErrBadRatio         = errors.New("minimum fan-out ratio must be in (0, 1]")
	ErrBadUtilization   = errors.New("utilization must be in (0, 1]")
	ErrBadPartitionSize = errors.New("partition size must hold at least one full node")
	ErrBadDimOrder      = errors.New("dimension order entries must be valid dimensions")
	ErrCapacityTooSmall = errors.New("derived node capacity is too small to build a tree")
	ErrFanoutTooTight   = errors.New("minimum fan-out leaves group sizes no covering can reach")
	ErrBadStrategy      = errors.New("unknown strategy")
)

// build-time errors
var (
	ErrEmptyInput      = errors.New("cannot bulk load an empty input")
	ErrPayloadTooLarge = errors.New("serialized payload exceeds the declared maximum size")
	ErrDimsMismatch    = errors.New("rectangle dimension count does not match the build")

	// ErrGroupTooLarge signals a partitioner bug or chunk bookkeeping bug:
	// a computed group exceeds the node capacity. Never recoverable.
	ErrGroupTooLarge = errors.New("partition produced a group larger than the node capacity")

	// ErrNoProgress signals that a full pass emitted at least as many nodes
	// as it consumed entries, which would loop forever. It arises only with
	// degenerate configurations (minimum fan-out of 1 over zero-cost input).
	ErrNoProgress = errors.New("pass did not reduce the number of nodes")
)
