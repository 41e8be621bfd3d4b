// Package storage defines the opaque block-id store the bulk loader persists
// tree nodes through, together with an in-memory implementation and a
// fixed-block single-file implementation.
//
// The loader's contract with a store is deliberately narrow: Reserve hands
// out a stable id before the node content exists, Update materializes the
// content, Read gets it back. Ids are opaque to the loader; it never assumes
// ordering or adjacency.
package storage

import "context"

// ID identifies one stored block. Ids are stable once reserved.
type ID int64

// NilID is the id no block ever has. Leaf entries use it as their child id.
const NilID ID = -1

// Reserver allocates ids ahead of content. A reserved block reads as empty
// until Update is called for it.
type Reserver interface {
	Reserve(ctx context.Context) (ID, error)
}

// Writer materializes or overwrites the content of a reserved block.
type Writer interface {
	Update(ctx context.Context, id ID, data []byte) error
}

// Reader returns the current content of a block.
type Reader interface {
	Read(ctx context.Context, id ID) ([]byte, error)
}

// Store is the full collaborator contract the bulk loader consumes. The
// loader is the single writer for the duration of a build; stores do not need
// to arbitrate concurrent builds.
type Store interface {
	Reserver
	Writer
	Reader
}
