package rect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolume(t *testing.T) {
	r := mustRect(t, []float64{0, 0}, []float64{2, 3})
	assert.Equal(t, 6.0, Volume(r))

	// degenerate boxes have zero volume
	p, _ := Point([]float64{1, 2})
	assert.Equal(t, 0.0, Volume(p))
}

func TestMargin(t *testing.T) {
	r := mustRect(t, []float64{0, 0, 0}, []float64{2, 3, 4})
	assert.Equal(t, 9.0, Margin(r))
}

func TestExtendedVolume(t *testing.T) {
	r := mustRect(t, []float64{0, 0}, []float64{2, 3})

	// nil footprint is plain volume
	assert.Equal(t, Volume(r), ExtendedVolume(nil)(r))

	// (2+1) * (3+2) = 15
	fn := ExtendedVolume([]float64{1, 2})
	assert.Equal(t, 15.0, fn(r))

	// a point with a footprint still has positive cost, so optimizing over
	// point data remains meaningful
	p, _ := Point([]float64{5, 5})
	assert.Equal(t, 2.0, fn(p))
}
