package rect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRect(t *testing.T, min, max []float64) Rectangle {
	t.Helper()
	r, err := New(min, max)
	require.NoError(t, err)
	return r
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrBadDimensions)

	_, err = New([]float64{0, 0}, []float64{1})
	assert.ErrorIs(t, err, ErrBadDimensions)

	_, err = New([]float64{2, 0}, []float64{1, 1})
	assert.ErrorIs(t, err, ErrMinExceedsMax)
}

func TestNewCopiesInput(t *testing.T) {
	min := []float64{0, 0}
	max := []float64{1, 1}
	r := mustRect(t, min, max)
	min[0] = 99
	assert.Equal(t, 0.0, r.Min[0])
}

func TestUnionContainsBothAndCommutes(t *testing.T) {
	cases := []struct {
		name   string
		a, b   Rectangle
		expect Rectangle
	}{
		{
			name:   "disjoint",
			a:      mustRect(t, []float64{0, 0}, []float64{1, 1}),
			b:      mustRect(t, []float64{2, 3}, []float64{4, 5}),
			expect: mustRect(t, []float64{0, 0}, []float64{4, 5}),
		},
		{
			name:   "nested",
			a:      mustRect(t, []float64{0, 0}, []float64{10, 10}),
			b:      mustRect(t, []float64{2, 2}, []float64{3, 3}),
			expect: mustRect(t, []float64{0, 0}, []float64{10, 10}),
		},
		{
			name:   "overlapping",
			a:      mustRect(t, []float64{0, 0}, []float64{2, 2}),
			b:      mustRect(t, []float64{1, -1}, []float64{3, 1}),
			expect: mustRect(t, []float64{0, -1}, []float64{3, 2}),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab := tc.a.Union(tc.b)
			ba := tc.b.Union(tc.a)
			assert.True(t, ab.Equal(tc.expect), "got %v want %v", ab, tc.expect)
			assert.True(t, ab.Equal(ba), "union must commute")
			assert.True(t, ab.Contains(tc.a))
			assert.True(t, ab.Contains(tc.b))
		})
	}
}

func TestUnionLeavesOperandsUntouched(t *testing.T) {
	a := mustRect(t, []float64{0, 0}, []float64{1, 1})
	b := mustRect(t, []float64{5, 5}, []float64{6, 6})
	_ = a.Union(b)
	assert.True(t, a.Equal(mustRect(t, []float64{0, 0}, []float64{1, 1})))
	assert.True(t, b.Equal(mustRect(t, []float64{5, 5}, []float64{6, 6})))
}

func TestExtendMutatesInPlace(t *testing.T) {
	a := mustRect(t, []float64{0, 0}, []float64{1, 1})
	a.Extend(mustRect(t, []float64{-1, 2}, []float64{0.5, 3}))
	assert.True(t, a.Equal(mustRect(t, []float64{-1, 0}, []float64{1, 3})))
}

func TestCloneIsIndependent(t *testing.T) {
	a := mustRect(t, []float64{0, 0}, []float64{1, 1})
	c := a.Clone()
	c.Extend(mustRect(t, []float64{5, 5}, []float64{6, 6}))
	assert.True(t, a.Equal(mustRect(t, []float64{0, 0}, []float64{1, 1})))
}

func TestCenterAndExtent(t *testing.T) {
	r := mustRect(t, []float64{0, 10}, []float64{4, 10})
	assert.Equal(t, 2.0, r.Center(0))
	assert.Equal(t, 4.0, r.Extent(0))
	assert.Equal(t, 10.0, r.Center(1))
	assert.Equal(t, 0.0, r.Extent(1))
}

func TestUnionAll(t *testing.T) {
	_, err := UnionAll(nil)
	assert.ErrorIs(t, err, ErrEmptyUnion)

	all, err := UnionAll([]Rectangle{
		mustRect(t, []float64{0, 0}, []float64{1, 1}),
		mustRect(t, []float64{-2, 5}, []float64{0, 6}),
		mustRect(t, []float64{3, 3}, []float64{4, 4}),
	})
	require.NoError(t, err)
	assert.True(t, all.Equal(mustRect(t, []float64{-2, 0}, []float64{4, 6})))
}

func TestBinaryRoundTrip(t *testing.T) {
	r := mustRect(t, []float64{-1.5, 0, 2.25}, []float64{3, 0.125, 9})
	buf := make([]byte, EncodedSize(3))
	require.NoError(t, r.PutBinary(buf))

	got, err := FromBinary(buf, 3)
	require.NoError(t, err)
	assert.True(t, got.Equal(r))

	_, err = FromBinary(buf[:10], 3)
	assert.ErrorIs(t, err, ErrShortBuffer)
}
