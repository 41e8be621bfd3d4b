package bulk

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spatialpack/go-rtree/storage"
)

// nodeWriter persists finished nodes. One writer lives per pass; join is the
// pass barrier guaranteeing every write has completed before the level stream
// is handed to the next pass.
type nodeWriter interface {
	write(ctx context.Context, id storage.ID, n *Node) error
	join() error
}

func (b *Builder) newNodeWriter(ctx context.Context) nodeWriter {
	if b.opts.Async {
		return newAsyncWriter(ctx, b.store)
	}
	return &syncWriter{store: b.store}
}

type syncWriter struct {
	store storage.Store
}

func (w *syncWriter) write(ctx context.Context, id storage.ID, n *Node) error {
	data, err := encodeNode(n)
	if err != nil {
		return err
	}
	return w.store.Update(ctx, id, data)
}

func (w *syncWriter) join() error {
	return nil
}

// asyncWriter serializes and writes nodes on one background goroutine while
// the caller reads and partitions the next chunk. The queue is bounded so a
// slow store backpressures partitioning instead of buffering a whole level.
type asyncWriter struct {
	g     *errgroup.Group
	gctx  context.Context
	jobs  chan writeJob
	close sync.Once
}

type writeJob struct {
	id storage.ID
	n  *Node
}

const asyncQueueDepth = 8

func newAsyncWriter(ctx context.Context, store storage.Store) *asyncWriter {
	g, gctx := errgroup.WithContext(ctx)
	w := &asyncWriter{
		g:    g,
		gctx: gctx,
		jobs: make(chan writeJob, asyncQueueDepth),
	}
	g.Go(func() error {
		for job := range w.jobs {
			data, err := encodeNode(job.n)
			if err != nil {
				return err
			}
			if err := store.Update(gctx, job.id, data); err != nil {
				return err
			}
		}
		return nil
	})
	return w
}

func (w *asyncWriter) write(ctx context.Context, id storage.ID, n *Node) error {
	select {
	case w.jobs <- writeJob{id: id, n: n}:
		return nil
	case <-w.gctx.Done():
		// the worker failed or the build was cancelled; join surfaces the
		// underlying error
		return w.gctx.Err()
	}
}

func (w *asyncWriter) join() error {
	w.close.Do(func() { close(w.jobs) })
	return w.g.Wait()
}
