package rect

import "errors"

var (
	ErrBadDimensions = errors.New("rectangle min and max must have the same, non-zero dimension count")
	ErrMinExceedsMax = errors.New("rectangle min exceeds max")
	ErrEmptyUnion    = errors.New("cannot take the union of zero rectangles")
	ErrShortBuffer   = errors.New("buffer too short for encoded rectangle")
)
