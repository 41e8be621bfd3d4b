package bulk

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spatialpack/go-rtree/partition"
	"github.com/spatialpack/go-rtree/rect"
	"github.com/spatialpack/go-rtree/storage"
)

// Builder bulk loads one tree per Build call. A Builder is not safe for
// concurrent Build calls; the store is assumed to have a single writer per
// build.
type Builder struct {
	store storage.Store
	ser   Serializer
	dims  int
	caps  Capacities
	opts  Options
	log   *zap.SugaredLogger
}

// Tree describes a finished bulk load.
type Tree struct {
	Root    storage.ID
	RootBox rect.Rectangle
	Height  int // number of levels, 1 for a single-node tree
	Caps    Capacities
	Stats   BuildStats
}

// BuildStats counts the work of one build.
type BuildStats struct {
	Nodes         int
	Chunks        int
	NodesPerLevel []int
}

// New validates the configuration and derives node capacities. All
// configuration errors surface here, before any I/O.
func New(store storage.Store, ser Serializer, dims, blockSize int, opts ...Option) (*Builder, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if ser == nil {
		return nil, ErrNilSerializer
	}
	if dims < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadDims, dims)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Utilization <= 0 || o.Utilization > 1 {
		return nil, fmt.Errorf("%w: %v", ErrBadUtilization, o.Utilization)
	}
	if o.Cost == nil {
		o.Cost = rect.Volume
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	for _, d := range o.DimOrder {
		if d < 0 || d >= dims {
			return nil, fmt.Errorf("%w: dimension %d of %d", ErrBadDimOrder, d, dims)
		}
	}

	caps, err := DeriveCapacities(blockSize, ser.MaxSize(), dims, o.MinFanoutRatio)
	if err != nil {
		return nil, err
	}
	if o.PartitionSize < caps.LeafMax || o.PartitionSize < caps.IndexMax {
		return nil, fmt.Errorf("%w: partition size %d, node capacities %d/%d",
			ErrBadPartitionSize, o.PartitionSize, caps.LeafMax, caps.IndexMax)
	}

	return &Builder{
		store: store,
		ser:   ser,
		dims:  dims,
		caps:  caps,
		opts:  o,
		log:   o.Logger,
	}, nil
}

// Capacities returns the derived fan-out bounds.
func (b *Builder) Capacities() Capacities {
	return b.caps
}

// Build consumes src to completion and returns the finished tree. mapFn maps
// each payload to its bounding rectangle. A failed build leaves partially
// written blocks behind; callers restart from scratch.
func (b *Builder) Build(ctx context.Context, src Source, mapFn MapFunc) (*Tree, error) {
	if src == nil || mapFn == nil {
		return nil, fmt.Errorf("%w: source and map function are required", ErrEmptyInput)
	}

	stats := BuildStats{}
	var in entryIter = &leafIter{src: src, mapFn: mapFn, ser: b.ser, dims: b.dims}
	var inStream LevelStream
	level := 0

	closeStreams := func() {
		if inStream != nil {
			inStream.Close()
			inStream = nil
		}
	}
	defer closeStreams()

	for {
		out, err := b.newLevelStream(level)
		if err != nil {
			return nil, err
		}

		w := b.newNodeWriter(ctx)
		consumed, emitted, last, passErr := b.pass(ctx, in, level, out, w, &stats)
		// the pass barrier: every node write of this level completes (or
		// fails) before the level stream is read by the next pass
		if joinErr := w.join(); passErr == nil {
			passErr = joinErr
		}
		if passErr != nil {
			out.Close()
			return nil, passErr
		}

		b.log.Debugw("pass complete", "level", level, "consumed", consumed, "nodes", emitted)
		stats.NodesPerLevel = append(stats.NodesPerLevel, emitted)

		if level == 0 && consumed == 0 {
			out.Close()
			return nil, ErrEmptyInput
		}
		if emitted <= 1 {
			out.Close()
			closeStreams()
			return &Tree{
				Root:    last.ID,
				RootBox: last.Box,
				Height:  level + 1,
				Caps:    b.caps,
				Stats:   stats,
			}, nil
		}
		if emitted >= consumed {
			out.Close()
			return nil, fmt.Errorf("%w: level %d consumed %d, emitted %d", ErrNoProgress, level, consumed, emitted)
		}

		// the just-written level becomes the input one level higher
		closeStreams()
		if err := out.Rewind(); err != nil {
			out.Close()
			return nil, err
		}
		inStream = out
		in = &streamIter{s: out}
		level++
	}
}

func (b *Builder) newLevelStream(level int) (LevelStream, error) {
	if b.opts.MemoryStreams {
		return NewMemLevelStream(), nil
	}
	return NewFileLevelStream(b.opts.TempDir, fmt.Sprintf("rtree-l%d", level), b.dims)
}

// pass consumes one level chunk by chunk and writes the level above it.
func (b *Builder) pass(
	ctx context.Context, in entryIter, level int, out LevelStream, w nodeWriter, stats *BuildStats,
) (consumed, emitted int, last NodeRef, err error) {

	bmin, bmax := b.caps.forLevel(level)
	proc := b.newProcessor()

	emit := func(group []Entry) error {
		if len(group) > bmax {
			return fmt.Errorf("%w: %d entries, capacity %d", ErrGroupTooLarge, len(group), bmax)
		}
		box, err := rect.UnionAll(entryBoxes(group))
		if err != nil {
			return err
		}
		id, err := b.store.Reserve(ctx)
		if err != nil {
			return err
		}
		// the chunk buffer is reused; the node must own its entries
		owned := make([]Entry, len(group))
		copy(owned, group)
		if err := w.write(ctx, id, &Node{Level: level, Entries: owned}); err != nil {
			return err
		}
		ref := NodeRef{ID: id, Box: box}
		if err := out.Append(ref); err != nil {
			return err
		}
		last = ref
		emitted++
		stats.Nodes++
		return nil
	}

	chunk := make([]Entry, 0, b.opts.PartitionSize)
	for {
		chunk = chunk[:0]
		for len(chunk) < b.opts.PartitionSize {
			e, ok, err := in.next()
			if err != nil {
				return consumed, emitted, last, err
			}
			if !ok {
				break
			}
			chunk = append(chunk, e)
		}
		if len(chunk) == 0 {
			return consumed, emitted, last, nil
		}
		consumed += len(chunk)
		stats.Chunks++

		if len(chunk) <= bmax {
			if err := emit(chunk); err != nil {
				return consumed, emitted, last, err
			}
			continue
		}
		if err := b.packChunk(chunk, bmin, bmax, proc, emit); err != nil {
			return consumed, emitted, last, err
		}
	}
}

func (b *Builder) newProcessor() partition.Processor {
	switch b.opts.Strategy {
	case StrategyFixedCount:
		// the fixed-count matrix revisits every end position per row
		return partition.NewMemoProcessor(b.opts.Cost)
	default:
		return partition.NewOneShotProcessor(b.opts.Cost)
	}
}

// packChunk splits one over-capacity chunk into node groups and emits each.
func (b *Builder) packChunk(
	chunk []Entry, bmin, bmax int, proc partition.Processor, emit func([]Entry) error,
) error {
	switch b.opts.Strategy {
	case StrategySTR:
		return b.packSTR(chunk, bmax, emit)
	case StrategyTGS:
		return b.packTGS(chunk, bmax, emit)
	}

	var dist []int
	var err error
	switch b.opts.Strategy {
	case StrategyGOPT:
		// stale window costs from the previous chunk must not leak
		proc.Reset()
		dist, err = partition.Gopt(proc, entryBoxes(chunk), bmin, bmax)
	case StrategyFixedCount:
		var count int
		count, err = partition.TargetCount(len(chunk), bmax, b.opts.Utilization)
		if err == nil {
			proc.Reset()
			dist, err = partition.FixedCount(proc, entryBoxes(chunk), bmin, bmax, count)
		}
	case StrategySimple:
		dist, err = partition.Simple(len(chunk), bmax, b.opts.Utilization)
	default:
		err = fmt.Errorf("%w: %v", ErrBadStrategy, b.opts.Strategy)
	}
	if err != nil {
		return err
	}

	start := 0
	for _, size := range dist {
		if err := emit(chunk[start : start+size]); err != nil {
			return err
		}
		start += size
	}
	if start != len(chunk) {
		return fmt.Errorf("%w: distribution covers %d of %d entries", ErrGroupTooLarge, start, len(chunk))
	}
	return nil
}

func entryBoxes(es []Entry) []rect.Rectangle {
	rs := make([]rect.Rectangle, len(es))
	for i := range es {
		rs[i] = es[i].Box
	}
	return rs
}
