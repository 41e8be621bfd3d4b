package bulk

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/spatialpack/go-rtree/codec"
	"github.com/spatialpack/go-rtree/rect"
	"github.com/spatialpack/go-rtree/storage"
)

// Entry is one slot of a node: a serialized leaf payload at level 0, or a
// pointer to a child node above.
type Entry struct {
	Child storage.ID     `cbor:"1,keyasint"`
	Box   rect.Rectangle `cbor:"2,keyasint"`
	Data  []byte         `cbor:"3,keyasint,omitempty"`
}

// Node is one persisted tree node. Nodes are immutable once written; the
// loader never revisits a node after its block update.
type Node struct {
	Level   int     `cbor:"1,keyasint"`
	Entries []Entry `cbor:"2,keyasint"`
}

// Box returns the bounding box of all entries.
func (n *Node) Box() (rect.Rectangle, error) {
	if len(n.Entries) == 0 {
		return rect.Rectangle{}, rect.ErrEmptyUnion
	}
	acc := n.Entries[0].Box.Clone()
	for _, e := range n.Entries[1:] {
		acc.Extend(e.Box)
	}
	return acc, nil
}

var (
	nodeCodecOnce sync.Once
	nodeCodec     codec.CBORCodec
	nodeCodecErr  error
)

func getNodeCodec() (codec.CBORCodec, error) {
	nodeCodecOnce.Do(func() {
		nodeCodec, nodeCodecErr = codec.NewCBORCodec()
	})
	return nodeCodec, nodeCodecErr
}

func encodeNode(n *Node) ([]byte, error) {
	c, err := getNodeCodec()
	if err != nil {
		return nil, err
	}
	return c.MarshalCBOR(n)
}

// DecodeNode decodes a node previously persisted by a build.
func DecodeNode(data []byte) (*Node, error) {
	c, err := getNodeCodec()
	if err != nil {
		return nil, err
	}
	n := &Node{}
	if err := c.UnmarshalCBOR(data, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ReadNode reads and decodes the node stored under id. This is the read-side
// boundary a traversal engine starts from.
func ReadNode(ctx context.Context, store storage.Reader, id storage.ID) (*Node, error) {
	data, err := store.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	return DecodeNode(data)
}

// Capacities holds the derived per-level fan-out bounds.
type Capacities struct {
	LeafMin  int
	LeafMax  int
	IndexMin int
	IndexMax int
}

// nodeOverheadBytes covers everything outside the entries themselves: the
// store's block frame, the node map and level fields, and the entries array
// head for any fan-out below 2^32.
const nodeOverheadBytes = 16

// cborHeadBytes is the canonical CBOR head length for an unsigned argument of
// the given magnitude.
func cborHeadBytes(n int64) int {
	switch {
	case n < 24:
		return 1
	case n < 1<<8:
		return 2
	case n < 1<<16:
		return 3
	case n < 1<<32:
		return 5
	}
	return 9
}

const (
	// head plus full IEEE 754 payload. Canonical encoding shortens floats
	// that survive a half or single precision round trip; it never lengthens.
	cborFloat64Bytes = 9
	// head plus 8 byte argument, the widest any child id can encode
	cborIntBytes = 9
)

// worstRectBytes bounds the canonical encoding of one rectangle key: a
// two-entry map of float64 arrays.
func worstRectBytes(dims int) int {
	side := 1 + cborHeadBytes(int64(dims)) + dims*cborFloat64Bytes
	return 1 + 2*side
}

// worstLeafEntryBytes bounds one encoded leaf entry holding a payload of the
// declared maximum size.
func worstLeafEntryBytes(dims, payloadSize int) int {
	return 1 + // entry map
		1 + cborIntBytes + // child id
		1 + worstRectBytes(dims) + // box
		1 + cborHeadBytes(int64(payloadSize)) + payloadSize // data
}

// worstIndexEntryBytes bounds one encoded index entry; the data field is
// omitted above level 0.
func worstIndexEntryBytes(dims int) int {
	return 1 +
		1 + cborIntBytes +
		1 + worstRectBytes(dims)
}

// DeriveCapacities computes the (min, max) fan-out per node kind from the
// block size, the declared maximum serialized payload size, the dimension
// count, and the minimum-occupancy ratio:
//
//	max = floor(payload / worstEntrySize)
//	min = floor(payload * ratio / worstEntrySize)
//
// Entry sizes are worst-case canonical CBOR, so a node filled to max is
// guaranteed to fit its block whatever the coordinate values. Configurations
// yielding a non-positive bound, a maximum fan-out below 2, or bounds with
// uncoverable group sizes are rejected before any I/O happens.
func DeriveCapacities(blockSize, payloadSize, dims int, ratio float64) (Capacities, error) {
	if ratio <= 0 || ratio > 1 {
		return Capacities{}, fmt.Errorf("%w: %v", ErrBadRatio, ratio)
	}
	if dims < 1 {
		return Capacities{}, fmt.Errorf("%w: %d", ErrBadDims, dims)
	}
	if payloadSize <= 0 {
		return Capacities{}, fmt.Errorf("%w: payload size %d", ErrBadBlockSize, payloadSize)
	}
	payload := blockSize - nodeOverheadBytes
	if payload <= 0 {
		return Capacities{}, fmt.Errorf("%w: %d bytes", ErrBadBlockSize, blockSize)
	}

	leafEntry := worstLeafEntryBytes(dims, payloadSize)
	indexEntry := worstIndexEntryBytes(dims)

	caps := Capacities{
		LeafMax:  payload / leafEntry,
		LeafMin:  int(math.Floor(float64(payload) * ratio / float64(leafEntry))),
		IndexMax: payload / indexEntry,
		IndexMin: int(math.Floor(float64(payload) * ratio / float64(indexEntry))),
	}
	if caps.LeafMax < 2 || caps.IndexMax < 2 {
		return Capacities{}, fmt.Errorf(
			"%w: leaf B=%d index B=%d from %d byte blocks", ErrCapacityTooSmall, caps.LeafMax, caps.IndexMax, blockSize)
	}
	if caps.LeafMin < 1 || caps.IndexMin < 1 {
		return Capacities{}, fmt.Errorf(
			"%w: leaf b=%d index b=%d (ratio %v)", ErrCapacityTooSmall, caps.LeafMin, caps.IndexMin, ratio)
	}
	// with 2b > B+1 the group-size intervals [kb, kB] leave gaps, so some
	// chunk sizes above B admit no covering at all
	if 2*caps.LeafMin > caps.LeafMax+1 || 2*caps.IndexMin > caps.IndexMax+1 {
		return Capacities{}, fmt.Errorf(
			"%w: leaf %d/%d index %d/%d (ratio %v)", ErrFanoutTooTight,
			caps.LeafMin, caps.LeafMax, caps.IndexMin, caps.IndexMax, ratio)
	}
	return caps, nil
}

// forLevel returns the (min, max) bounds that apply at the given tree level.
func (c Capacities) forLevel(level int) (int, int) {
	if level == 0 {
		return c.LeafMin, c.LeafMax
	}
	return c.IndexMin, c.IndexMax
}
