package bulk

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/spatialpack/go-rtree/extsort"
	"github.com/spatialpack/go-rtree/rect"
	"github.com/spatialpack/go-rtree/storage"
)

// entryCodec frames entries as fixed-size records for external sorting:
//
//	[8 child id BE][rect][4 data length BE][data, zero padded to maxData]
type entryCodec struct {
	dims    int
	maxData int
}

func (c entryCodec) Size() int {
	return 8 + rect.EncodedSize(c.dims) + 4 + c.maxData
}

func (c entryCodec) Encode(dst []byte, e Entry) error {
	if len(e.Data) > c.maxData {
		return fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(e.Data), c.maxData)
	}
	binary.BigEndian.PutUint64(dst[0:8], uint64(e.Child))
	off := 8
	if err := e.Box.PutBinary(dst[off:]); err != nil {
		return err
	}
	off += rect.EncodedSize(c.dims)
	binary.BigEndian.PutUint32(dst[off:], uint32(len(e.Data)))
	off += 4
	copy(dst[off:], e.Data)
	for i := off + len(e.Data); i < len(dst); i++ {
		dst[i] = 0
	}
	return nil
}

func (c entryCodec) Decode(src []byte) (Entry, error) {
	child := storage.ID(binary.BigEndian.Uint64(src[0:8]))
	off := 8
	box, err := rect.FromBinary(src[off:], c.dims)
	if err != nil {
		return Entry{}, err
	}
	off += rect.EncodedSize(c.dims)
	dlen := binary.BigEndian.Uint32(src[off:])
	off += 4
	if int(dlen) > c.maxData {
		return Entry{}, fmt.Errorf("%w: record claims %d bytes", ErrPayloadTooLarge, dlen)
	}
	var data []byte
	if dlen > 0 {
		data = make([]byte, dlen)
		copy(data, src[off:off+int(dlen)])
	}
	return Entry{Child: child, Box: box, Data: data}, nil
}

// sortEntriesByCenter orders es by centroid along dim, spilling to disk when
// the slice exceeds the sort threshold.
func (b *Builder) sortEntriesByCenter(es []Entry, dim int) error {
	less := func(x, y Entry) bool {
		return x.Box.Center(dim) < y.Box.Center(dim)
	}
	if len(es) <= b.opts.SortThreshold {
		sort.Slice(es, func(i, j int) bool { return less(es[i], es[j]) })
		return nil
	}
	c := entryCodec{dims: b.dims, maxData: b.ser.MaxSize()}
	return extsort.Sort(es, less, c, b.opts.SortThreshold, b.opts.TempDir)
}
