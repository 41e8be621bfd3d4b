package storage

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"
)

func TestMemStoreReserveUpdateRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	id0, err := s.Reserve(ctx)
	assert.NilError(t, err)
	id1, err := s.Reserve(ctx)
	assert.NilError(t, err)
	assert.Assert(t, id0 != id1, "ids must be distinct")

	// a reserved block reads as empty before its update
	data, err := s.Read(ctx, id0)
	assert.NilError(t, err)
	assert.Equal(t, len(data), 0)

	assert.NilError(t, s.Update(ctx, id0, []byte("alpha")))
	assert.NilError(t, s.Update(ctx, id1, []byte("beta")))

	data, err = s.Read(ctx, id0)
	assert.NilError(t, err)
	assert.DeepEqual(t, data, []byte("alpha"))

	// ids are stable across later updates
	assert.NilError(t, s.Update(ctx, id0, []byte("gamma")))
	data, err = s.Read(ctx, id0)
	assert.NilError(t, err)
	assert.DeepEqual(t, data, []byte("gamma"))

	assert.Equal(t, s.Len(), 2)
}

func TestMemStoreUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	_, err := s.Read(ctx, 0)
	assert.ErrorIs(t, err, ErrUnknownID)
	err = s.Update(ctx, 5, []byte("x"))
	assert.ErrorIs(t, err, ErrUnknownID)
	err = s.Update(ctx, NilID, []byte("x"))
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestMemStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	id, _ := s.Reserve(ctx)

	buf := []byte("original")
	assert.NilError(t, s.Update(ctx, id, buf))
	buf[0] = 'X'

	data, err := s.Read(ctx, id)
	assert.NilError(t, err)
	assert.DeepEqual(t, data, []byte("original"))
}
