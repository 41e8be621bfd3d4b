package storage

import "errors"

var (
	ErrUnknownID     = errors.New("no block reserved with the requested id")
	ErrBlockTooLarge = errors.New("data exceeds the store's block size")
	ErrBadBlockSize  = errors.New("block size must be positive")
	ErrBadBlockFile  = errors.New("not a block file, or header is corrupt")
	ErrClosed        = errors.New("store is closed")
)
