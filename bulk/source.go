package bulk

import (
	"fmt"

	"github.com/spatialpack/go-rtree/codec"
	"github.com/spatialpack/go-rtree/rect"
	"github.com/spatialpack/go-rtree/storage"
)

// Source yields the leaf payload objects of a build, one at a time. Next
// returns ok=false when the input is exhausted.
type Source interface {
	Next() (any, bool, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() (any, bool, error)

func (f SourceFunc) Next() (any, bool, error) {
	return f()
}

// SliceSource returns a Source over the given items.
func SliceSource[T any](items []T) Source {
	i := 0
	return SourceFunc(func() (any, bool, error) {
		if i >= len(items) {
			return nil, false, nil
		}
		v := items[i]
		i++
		return v, true, nil
	})
}

// MapFunc maps an input object to its bounding rectangle. It is called once
// per leaf entry.
type MapFunc func(item any) (rect.Rectangle, error)

// Serializer converts leaf payloads to and from bytes. MaxSize declares the
// largest encoding any payload may have; it feeds the node capacity
// derivation, and payloads exceeding it fail the build.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	MaxSize() int
}

// CBORSerializer is the default Serializer.
type CBORSerializer struct {
	c       codec.CBORCodec
	maxSize int
}

func NewCBORSerializer(maxSize int) (*CBORSerializer, error) {
	c, err := codec.NewCBORCodec()
	if err != nil {
		return nil, err
	}
	return &CBORSerializer{c: c, maxSize: maxSize}, nil
}

func (s *CBORSerializer) Marshal(v any) ([]byte, error) {
	return s.c.MarshalCBOR(v)
}

func (s *CBORSerializer) Unmarshal(data []byte, v any) error {
	return s.c.UnmarshalCBOR(data, v)
}

func (s *CBORSerializer) MaxSize() int {
	return s.maxSize
}

// entryIter yields the entries of the level currently being consumed.
type entryIter interface {
	next() (Entry, bool, error)
}

// leafIter wraps the caller's Source for the level-0 pass: each payload is
// mapped to its box and serialized exactly once.
type leafIter struct {
	src   Source
	mapFn MapFunc
	ser   Serializer
	dims  int
}

func (it *leafIter) next() (Entry, bool, error) {
	item, ok, err := it.src.Next()
	if err != nil || !ok {
		return Entry{}, false, err
	}
	box, err := it.mapFn(item)
	if err != nil {
		return Entry{}, false, err
	}
	if box.Dims() != it.dims {
		return Entry{}, false, fmt.Errorf("%w: got %d, want %d", ErrDimsMismatch, box.Dims(), it.dims)
	}
	data, err := it.ser.Marshal(item)
	if err != nil {
		return Entry{}, false, err
	}
	if len(data) > it.ser.MaxSize() {
		return Entry{}, false, fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(data), it.ser.MaxSize())
	}
	return Entry{Child: storage.NilID, Box: box, Data: data}, true, nil
}

// streamIter rehydrates a completed level's refs as index entries for the
// pass above it.
type streamIter struct {
	s LevelStream
}

func (it *streamIter) next() (Entry, bool, error) {
	ref, ok, err := it.s.Next()
	if err != nil || !ok {
		return Entry{}, false, err
	}
	return Entry{Child: ref.ID, Box: ref.Box}, true, nil
}
