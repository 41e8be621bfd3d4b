package bulk

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/spatialpack/go-rtree/rect"
	"github.com/spatialpack/go-rtree/storage"
)

// NodeRef summarizes one written node: its storage id and bounding box. A
// completed level is an ordered sequence of NodeRefs.
type NodeRef struct {
	ID  storage.ID
	Box rect.Rectangle
}

// LevelStream stores the refs of one completed tree level. A stream is
// append-only while its pass runs; Rewind switches it to reading for the next
// pass. Close releases any backing resources (for the file-backed stream,
// the temp file is removed).
type LevelStream interface {
	Append(ref NodeRef) error
	Rewind() error
	Next() (NodeRef, bool, error)
	Len() int
	Close() error
}

// memLevelStream keeps the refs in memory. Fine for small builds and tests.
type memLevelStream struct {
	refs []NodeRef
	pos  int
}

func NewMemLevelStream() LevelStream {
	return &memLevelStream{}
}

func (s *memLevelStream) Append(ref NodeRef) error {
	s.refs = append(s.refs, ref)
	return nil
}

func (s *memLevelStream) Rewind() error {
	s.pos = 0
	return nil
}

func (s *memLevelStream) Next() (NodeRef, bool, error) {
	if s.pos >= len(s.refs) {
		return NodeRef{}, false, nil
	}
	ref := s.refs[s.pos]
	s.pos++
	return ref, true, nil
}

func (s *memLevelStream) Len() int {
	return len(s.refs)
}

func (s *memLevelStream) Close() error {
	s.refs = nil
	return nil
}

// fileLevelStream spills the refs to a temp file of fixed records:
//
//	[8 byte id BE][rect: dims * (min, max) float64 BE]
//
// This is the loader's only wire format and is private to one build.
type fileLevelStream struct {
	path string
	dims int
	f    *os.File
	w    *bufio.Writer
	r    *bufio.Reader
	n    int
	buf  []byte
}

func NewFileLevelStream(dir, prefix string, dims int) (LevelStream, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.lvl", prefix, uuid.NewString()))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	return &fileLevelStream{
		path: path,
		dims: dims,
		f:    f,
		w:    bufio.NewWriter(f),
		buf:  make([]byte, 8+rect.EncodedSize(dims)),
	}, nil
}

func (s *fileLevelStream) Append(ref NodeRef) error {
	if s.w == nil {
		return fmt.Errorf("level stream %s is no longer writable", s.path)
	}
	binary.BigEndian.PutUint64(s.buf[0:8], uint64(ref.ID))
	if err := ref.Box.PutBinary(s.buf[8:]); err != nil {
		return err
	}
	if _, err := s.w.Write(s.buf); err != nil {
		return err
	}
	s.n++
	return nil
}

func (s *fileLevelStream) Rewind() error {
	if s.w != nil {
		if err := s.w.Flush(); err != nil {
			return err
		}
		s.w = nil
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	s.r = bufio.NewReader(s.f)
	return nil
}

func (s *fileLevelStream) Next() (NodeRef, bool, error) {
	if s.r == nil {
		return NodeRef{}, false, fmt.Errorf("level stream %s not rewound before read", s.path)
	}
	if _, err := io.ReadFull(s.r, s.buf); err != nil {
		if err == io.EOF {
			return NodeRef{}, false, nil
		}
		return NodeRef{}, false, err
	}
	box, err := rect.FromBinary(s.buf[8:], s.dims)
	if err != nil {
		return NodeRef{}, false, err
	}
	return NodeRef{
		ID:  storage.ID(binary.BigEndian.Uint64(s.buf[0:8])),
		Box: box,
	}, true, nil
}

func (s *fileLevelStream) Len() int {
	return s.n
}

func (s *fileLevelStream) Close() error {
	err := s.f.Close()
	if rmErr := os.Remove(s.path); err == nil {
		err = rmErr
	}
	return err
}
