package partition

import "errors"

var (
	ErrBadBounds           = errors.New("bucket bounds must satisfy 1 <= b <= B")
	ErrBadUtilization      = errors.New("utilization must be in (0, 1]")
	ErrBadBucketCount      = errors.New("bucket count must be positive")
	ErrInfeasiblePartition = errors.New("no covering with the requested bounds and count exists")
	ErrUnsupported         = errors.New("the processor cannot materialize a full cost matrix")
	ErrEmptyInput          = errors.New("cannot partition zero rectangles")
)
