// Package extsort sorts entry slices with bounded working memory. Inputs at
// or below the memory limit are sorted in place; larger inputs are split into
// sorted runs spilled to fixed-record temp files and merged back with a k-way
// heap merge, so no single sort step holds more than one run plus the merge
// heads in memory.
package extsort

import (
	"bufio"
	"container/heap"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

var ErrBadRecordSize = errors.New("record codec must declare a positive fixed size")

// Codec encodes values as fixed-size records for the spill files.
type Codec[T any] interface {
	Size() int
	Encode(dst []byte, v T) error
	Decode(src []byte) (T, error)
}

// Sort sorts items by less. memLimit bounds the number of items any single
// in-memory sort touches; values <= 0 disable spilling entirely. Spill runs
// are written to dir ("" means the system temp directory) and removed before
// Sort returns.
func Sort[T any](items []T, less func(a, b T) bool, c Codec[T], memLimit int, dir string) error {
	if memLimit <= 0 || len(items) <= memLimit {
		sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
		return nil
	}
	if c.Size() <= 0 {
		return fmt.Errorf("%w: %d", ErrBadRecordSize, c.Size())
	}
	if dir == "" {
		dir = os.TempDir()
	}

	var paths []string
	defer func() {
		for _, p := range paths {
			os.Remove(p)
		}
	}()

	// sorted runs of memLimit items each
	buf := make([]byte, c.Size())
	for start := 0; start < len(items); start += memLimit {
		end := start + memLimit
		if end > len(items) {
			end = len(items)
		}
		run := items[start:end]
		sort.Slice(run, func(i, j int) bool { return less(run[i], run[j]) })

		path := filepath.Join(dir, "extsort-"+uuid.NewString()+".run")
		if err := writeRun(path, run, c, buf); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	// k-way merge back into items
	readers := make([]*runReader[T], len(paths))
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.close()
			}
		}
	}()
	h := &mergeHeap[T]{less: less}
	for i, path := range paths {
		r, err := openRun(path, c)
		if err != nil {
			return err
		}
		readers[i] = r
		v, ok, err := r.next()
		if err != nil {
			return err
		}
		if ok {
			h.heads = append(h.heads, mergeHead[T]{v: v, run: i})
		}
	}
	heap.Init(h)

	idx := 0
	for h.Len() > 0 {
		hd := h.heads[0]
		items[idx] = hd.v
		idx++
		v, ok, err := readers[hd.run].next()
		if err != nil {
			return err
		}
		if ok {
			h.heads[0].v = v
			heap.Fix(h, 0)
		} else {
			heap.Pop(h)
		}
	}
	if idx != len(items) {
		return fmt.Errorf("merge produced %d of %d items", idx, len(items))
	}
	return nil
}

func writeRun[T any](path string, run []T, c Codec[T], buf []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, v := range run {
		if err := c.Encode(buf, v); err != nil {
			f.Close()
			return err
		}
		if _, err := w.Write(buf); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type runReader[T any] struct {
	f   *os.File
	r   *bufio.Reader
	c   Codec[T]
	buf []byte
}

func openRun[T any](path string, c Codec[T]) (*runReader[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &runReader[T]{
		f:   f,
		r:   bufio.NewReader(f),
		c:   c,
		buf: make([]byte, c.Size()),
	}, nil
}

func (r *runReader[T]) next() (T, bool, error) {
	var zero T
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		if err == io.EOF {
			return zero, false, nil
		}
		return zero, false, err
	}
	v, err := r.c.Decode(r.buf)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (r *runReader[T]) close() {
	r.f.Close()
}

type mergeHead[T any] struct {
	v   T
	run int
}

type mergeHeap[T any] struct {
	heads []mergeHead[T]
	less  func(a, b T) bool
}

func (h *mergeHeap[T]) Len() int            { return len(h.heads) }
func (h *mergeHeap[T]) Less(i, j int) bool  { return h.less(h.heads[i].v, h.heads[j].v) }
func (h *mergeHeap[T]) Swap(i, j int)       { h.heads[i], h.heads[j] = h.heads[j], h.heads[i] }
func (h *mergeHeap[T]) Push(x any)          { h.heads = append(h.heads, x.(mergeHead[T])) }
func (h *mergeHeap[T]) Pop() any {
	old := h.heads
	n := len(old)
	x := old[n-1]
	h.heads = old[:n-1]
	return x
}
