package rect

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Rectangles are persisted in level streams and block headers with a fixed
// layout: dims * (min, max) float64 pairs, big endian. The dimension count is
// carried out of band by the consumer, which fixes it for a whole build.

// EncodedSize returns the byte length of a rectangle with the given dimension
// count in the fixed binary layout.
func EncodedSize(dims int) int {
	return dims * 2 * 8
}

// PutBinary encodes r into dst, which must be at least EncodedSize(r.Dims())
// bytes.
func (r Rectangle) PutBinary(dst []byte) error {
	if len(dst) < EncodedSize(r.Dims()) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, EncodedSize(r.Dims()), len(dst))
	}
	off := 0
	for i := range r.Min {
		binary.BigEndian.PutUint64(dst[off:], math.Float64bits(r.Min[i]))
		binary.BigEndian.PutUint64(dst[off+8:], math.Float64bits(r.Max[i]))
		off += 16
	}
	return nil
}

// FromBinary decodes a rectangle with the given dimension count from src.
func FromBinary(src []byte, dims int) (Rectangle, error) {
	if dims <= 0 {
		return Rectangle{}, fmt.Errorf("%w: dims %d", ErrBadDimensions, dims)
	}
	if len(src) < EncodedSize(dims) {
		return Rectangle{}, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, EncodedSize(dims), len(src))
	}
	r := Rectangle{
		Min: make([]float64, dims),
		Max: make([]float64, dims),
	}
	off := 0
	for i := 0; i < dims; i++ {
		r.Min[i] = math.Float64frombits(binary.BigEndian.Uint64(src[off:]))
		r.Max[i] = math.Float64frombits(binary.BigEndian.Uint64(src[off+8:]))
		off += 16
	}
	return r, nil
}
