package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store. It is safe for the loader's pipelined
// variant, where ids are reserved on one goroutine while content is written
// from another.
type MemStore struct {
	mu     sync.Mutex
	blocks [][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Reserve(ctx context.Context) (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, nil)
	return ID(len(s.blocks) - 1), nil
}

func (s *MemStore) Update(ctx context.Context, id ID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || int(id) >= len(s.blocks) {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.blocks[id] = buf
	return nil
}

func (s *MemStore) Read(ctx context.Context, id ID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || int(id) >= len(s.blocks) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	buf := make([]byte, len(s.blocks[id]))
	copy(buf, s.blocks[id])
	return buf, nil
}

// Len returns the number of reserved blocks.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blocks)
}
