package extsort

import (
	"encoding/binary"
	"math"
	"math/rand"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDir(dir string) ([]os.DirEntry, error) {
	return os.ReadDir(dir)
}

type f64Codec struct{}

func (f64Codec) Size() int { return 8 }

func (f64Codec) Encode(dst []byte, v float64) error {
	binary.BigEndian.PutUint64(dst, math.Float64bits(v))
	return nil
}

func (f64Codec) Decode(src []byte) (float64, error) {
	return math.Float64frombits(binary.BigEndian.Uint64(src)), nil
}

func randFloats(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	vs := make([]float64, n)
	for i := range vs {
		vs[i] = rng.Float64() * 1000
	}
	return vs
}

func less(a, b float64) bool { return a < b }

func TestSortInMemoryPath(t *testing.T) {
	vs := randFloats(100, 1)
	want := append([]float64(nil), vs...)
	sort.Float64s(want)

	require.NoError(t, Sort(vs, less, f64Codec{}, 1000, t.TempDir()))
	assert.Equal(t, want, vs)
}

func TestSortSpillPath(t *testing.T) {
	// memLimit 64 forces many runs and a wide merge
	vs := randFloats(1000, 2)
	want := append([]float64(nil), vs...)
	sort.Float64s(want)

	dir := t.TempDir()
	require.NoError(t, Sort(vs, less, f64Codec{}, 64, dir))
	assert.Equal(t, want, vs)

	// spill files are cleaned up
	entries, err := readDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSortSpillExactMultiple(t *testing.T) {
	vs := randFloats(128, 3)
	want := append([]float64(nil), vs...)
	sort.Float64s(want)

	require.NoError(t, Sort(vs, less, f64Codec{}, 32, t.TempDir()))
	assert.Equal(t, want, vs)
}

func TestSortEmptyAndSingle(t *testing.T) {
	require.NoError(t, Sort(nil, less, f64Codec{}, 4, t.TempDir()))

	vs := []float64{42}
	require.NoError(t, Sort(vs, less, f64Codec{}, 4, t.TempDir()))
	assert.Equal(t, []float64{42}, vs)
}

func TestSortIsDeterministicAcrossPaths(t *testing.T) {
	a := randFloats(300, 4)
	b := append([]float64(nil), a...)

	require.NoError(t, Sort(a, less, f64Codec{}, 0, t.TempDir()))  // in memory
	require.NoError(t, Sort(b, less, f64Codec{}, 50, t.TempDir())) // spilled
	assert.Equal(t, a, b)
}
