package bulk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialpack/go-rtree/rect"
	"github.com/spatialpack/go-rtree/storage"
)

func mustRect(t *testing.T, min, max []float64) rect.Rectangle {
	t.Helper()
	r, err := rect.New(min, max)
	require.NoError(t, err)
	return r
}

func TestDeriveCapacities(t *testing.T) {
	// payload = 416-16 = 400; worst-case 1-dim leaf entries are 53 bytes
	// (map + 10 id + 24 box + 18 data), index entries 35 bytes
	caps, err := DeriveCapacities(416, 16, 1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, Capacities{LeafMin: 3, LeafMax: 7, IndexMin: 5, IndexMax: 11}, caps)
}

func TestWorstEntrySizesBoundCanonicalEncoding(t *testing.T) {
	// a full-width id, non-shortenable coordinates and a maximum payload
	// must still encode within the derived budget
	const maxData = 16
	e := Entry{
		Child: storage.ID(1) << 60,
		Box:   mustRect(t, []float64{-1.2345678901234e100}, []float64{1.2345678901234e100}),
		Data:  make([]byte, maxData),
	}
	data, err := encodeNode(&Node{Level: 0, Entries: []Entry{e}})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(data), nodeOverheadBytes+worstLeafEntryBytes(1, maxData))

	e.Data = nil
	data, err = encodeNode(&Node{Level: 1, Entries: []Entry{e}})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(data), nodeOverheadBytes+worstIndexEntryBytes(1))
}

func TestDeriveCapacitiesRejectsBadConfig(t *testing.T) {
	_, err := DeriveCapacities(416, 16, 1, 0)
	assert.ErrorIs(t, err, ErrBadRatio)
	_, err = DeriveCapacities(416, 16, 1, 1.5)
	assert.ErrorIs(t, err, ErrBadRatio)

	_, err = DeriveCapacities(416, 16, 0, 0.5)
	assert.ErrorIs(t, err, ErrBadDims)
	_, err = DeriveCapacities(8, 16, 1, 0.5)
	assert.ErrorIs(t, err, ErrBadBlockSize)
	_, err = DeriveCapacities(416, 0, 1, 0.5)
	assert.ErrorIs(t, err, ErrBadBlockSize)

	// blocks too small for two entries
	_, err = DeriveCapacities(64, 64, 1, 0.5)
	assert.ErrorIs(t, err, ErrCapacityTooSmall)

	// ratio so low the minimum occupancy vanishes
	_, err = DeriveCapacities(416, 16, 1, 0.01)
	assert.ErrorIs(t, err, ErrCapacityTooSmall)
}

func TestDeriveCapacitiesRejectsUncoverableBounds(t *testing.T) {
	// ratio 0.9 derives leaf bounds 6/7; chunks of 9..11 entries would
	// admit no covering into [6, 7]
	_, err := DeriveCapacities(416, 16, 1, 0.9)
	assert.ErrorIs(t, err, ErrFanoutTooTight)
}

func TestCapacitiesForLevel(t *testing.T) {
	caps := Capacities{LeafMin: 5, LeafMax: 10, IndexMin: 6, IndexMax: 12}
	bmin, bmax := caps.forLevel(0)
	assert.Equal(t, 5, bmin)
	assert.Equal(t, 10, bmax)
	bmin, bmax = caps.forLevel(3)
	assert.Equal(t, 6, bmin)
	assert.Equal(t, 12, bmax)
}

func TestNodeEncodeDecode(t *testing.T) {
	n := &Node{
		Level: 0,
		Entries: []Entry{
			{Child: storage.NilID, Box: mustRect(t, []float64{0, 0}, []float64{1, 1}), Data: []byte{0x01}},
			{Child: storage.NilID, Box: mustRect(t, []float64{2, 2}, []float64{3, 3}), Data: []byte{0x02}},
		},
	}
	data, err := encodeNode(n)
	require.NoError(t, err)

	got, err := DecodeNode(data)
	require.NoError(t, err)
	assert.Equal(t, n.Level, got.Level)
	require.Len(t, got.Entries, 2)
	assert.True(t, got.Entries[0].Box.Equal(n.Entries[0].Box))
	assert.Equal(t, n.Entries[1].Data, got.Entries[1].Data)
}

func TestNodeBox(t *testing.T) {
	n := &Node{Entries: []Entry{
		{Box: mustRect(t, []float64{0, 0}, []float64{1, 1})},
		{Box: mustRect(t, []float64{4, -2}, []float64{5, 0})},
	}}
	box, err := n.Box()
	require.NoError(t, err)
	assert.True(t, box.Equal(mustRect(t, []float64{0, -2}, []float64{5, 1})))

	empty := &Node{}
	_, err = empty.Box()
	assert.ErrorIs(t, err, rect.ErrEmptyUnion)
}

func TestReadNodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	id, err := store.Reserve(ctx)
	require.NoError(t, err)

	n := &Node{Level: 2, Entries: []Entry{
		{Child: 7, Box: mustRect(t, []float64{0}, []float64{1})},
	}}
	data, err := encodeNode(n)
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, id, data))

	got, err := ReadNode(ctx, store, id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, storage.ID(7), got.Entries[0].Child)
}
