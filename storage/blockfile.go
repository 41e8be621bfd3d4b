package storage

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sync"
)

const (
	blockFileMagic   = "RTB1"
	blockFileVersion = 1
	headerBytes      = 16
	// each block is framed with a u32 content length
	blockFrameBytes = 4
)

// BlockFile is a Store backed by a single file of fixed-size blocks. Block
// ids are zero-based block ordinals. The file starts with a 16 byte header:
//
//	[4 magic "RTB1"][1 version][3 zero][4 block size BE][4 zero]
//
// Reserve extends the file by one zeroed block; Update frames the content
// with a u32 length and writes it at the block's offset.
type BlockFile struct {
	mu        sync.Mutex
	f         *os.File
	blockSize uint32
	next      ID
	closed    bool
}

// CreateBlockFile creates (or truncates) a block file at path.
func CreateBlockFile(path string, blockSize int) (*BlockFile, error) {
	if blockSize <= blockFrameBytes {
		return nil, fmt.Errorf("%w: %d", ErrBadBlockSize, blockSize)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	var hdr [headerBytes]byte
	copy(hdr[0:4], blockFileMagic)
	hdr[4] = blockFileVersion
	binary.BigEndian.PutUint32(hdr[8:12], uint32(blockSize))
	if _, err := f.WriteAt(hdr[:], 0); err != nil {
		f.Close()
		return nil, err
	}
	return &BlockFile{f: f, blockSize: uint32(blockSize)}, nil
}

// OpenBlockFile opens an existing block file and resumes after the last
// reserved block.
func OpenBlockFile(path string) (*BlockFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	var hdr [headerBytes]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadBlockFile, err)
	}
	if string(hdr[0:4]) != blockFileMagic || hdr[4] != blockFileVersion {
		f.Close()
		return nil, fmt.Errorf("%w: bad magic or version", ErrBadBlockFile)
	}
	blockSize := binary.BigEndian.Uint32(hdr[8:12])
	if blockSize <= blockFrameBytes {
		f.Close()
		return nil, fmt.Errorf("%w: block size %d", ErrBadBlockFile, blockSize)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	payload := st.Size() - headerBytes
	if payload < 0 || payload%int64(blockSize) != 0 {
		f.Close()
		return nil, fmt.Errorf("%w: size %d is not header plus whole blocks", ErrBadBlockFile, st.Size())
	}
	return &BlockFile{
		f:         f,
		blockSize: blockSize,
		next:      ID(payload / int64(blockSize)),
	}, nil
}

// BlockSize returns the fixed size of one block, including framing.
func (s *BlockFile) BlockSize() int {
	return int(s.blockSize)
}

// Len returns the number of reserved blocks.
func (s *BlockFile) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.next)
}

func (s *BlockFile) offset(id ID) int64 {
	return headerBytes + int64(id)*int64(s.blockSize)
}

func (s *BlockFile) Reserve(ctx context.Context) (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NilID, ErrClosed
	}
	id := s.next
	s.next++
	// materialize the block so Len survives reopen
	if err := s.f.Truncate(s.offset(s.next)); err != nil {
		s.next = id
		return NilID, err
	}
	return id, nil
}

func (s *BlockFile) Update(ctx context.Context, id ID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if id < 0 || id >= s.next {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	if len(data)+blockFrameBytes > int(s.blockSize) {
		return fmt.Errorf("%w: %d bytes into %d byte blocks", ErrBlockTooLarge, len(data), s.blockSize)
	}
	buf := make([]byte, blockFrameBytes+len(data))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(data)))
	copy(buf[blockFrameBytes:], data)
	_, err := s.f.WriteAt(buf, s.offset(id))
	return err
}

func (s *BlockFile) Read(ctx context.Context, id ID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if id < 0 || id >= s.next {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	buf := make([]byte, s.blockSize)
	if _, err := s.f.ReadAt(buf, s.offset(id)); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(buf[0:4])
	if n > s.blockSize-blockFrameBytes {
		return nil, fmt.Errorf("%w: block %d claims %d content bytes", ErrBadBlockFile, id, n)
	}
	return buf[blockFrameBytes : blockFrameBytes+n], nil
}

// Sync flushes the file to stable storage.
func (s *BlockFile) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.f.Sync()
}

func (s *BlockFile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}
