package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleRemainderExample(t *testing.T) {
	// B' = floor(0.5*10) = 5, last group takes the remainder
	dist, err := Simple(23, 10, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5, 5, 5, 3}, dist)
}

func TestSimpleExactFit(t *testing.T) {
	dist, err := Simple(20, 10, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5, 5, 5}, dist)
}

func TestSimpleFullUtilization(t *testing.T) {
	dist, err := Simple(7, 3, 1.0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, dist)
}

func TestSimpleSmallInputs(t *testing.T) {
	dist, err := Simple(0, 10, 0.5)
	require.NoError(t, err)
	assert.Empty(t, dist)

	dist, err = Simple(3, 10, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, dist)

	// floor(0.1*5) = 0 clamps to groups of 1
	dist, err = Simple(3, 5, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, dist)
}

func TestSimpleRejectsBadArgs(t *testing.T) {
	_, err := Simple(5, 0, 0.5)
	assert.ErrorIs(t, err, ErrBadBounds)
	_, err = Simple(5, 10, 0)
	assert.ErrorIs(t, err, ErrBadUtilization)
	_, err = Simple(5, 10, 1.5)
	assert.ErrorIs(t, err, ErrBadUtilization)
}
