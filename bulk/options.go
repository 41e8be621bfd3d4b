package bulk

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spatialpack/go-rtree/rect"
)

// Strategy selects the per-chunk grouping algorithm. It is a closed set; each
// variant reads only the options it needs.
type Strategy int

const (
	// StrategyGOPT picks cost-optimal group boundaries per chunk.
	StrategyGOPT Strategy = iota
	// StrategySimple slices chunks into fixed-size runs; for input that is
	// already spatially sorted.
	StrategySimple
	// StrategyFixedCount targets a bucket count derived from the
	// utilization, with optimal boundaries.
	StrategyFixedCount
	// StrategySTR sorts and tiles each chunk recursively across dimensions.
	StrategySTR
	// StrategyTGS bisects each chunk greedily at the cheapest cut.
	StrategyTGS
)

func (s Strategy) String() string {
	switch s {
	case StrategyGOPT:
		return "gopt"
	case StrategySimple:
		return "simple"
	case StrategyFixedCount:
		return "fixedcount"
	case StrategySTR:
		return "str"
	case StrategyTGS:
		return "tgs"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name to its value.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gopt", "":
		return StrategyGOPT, nil
	case "simple":
		return StrategySimple, nil
	case "fixedcount", "fixed":
		return StrategyFixedCount, nil
	case "str":
		return StrategySTR, nil
	case "tgs":
		return StrategyTGS, nil
	}
	return StrategyGOPT, fmt.Errorf("%w: %q", ErrBadStrategy, name)
}

// Options collects every knob of a build. Zero values are filled with the
// defaults below; use the With functions rather than constructing this
// directly.
type Options struct {
	Strategy       Strategy
	PartitionSize  int     // in-memory chunk bound, in entries
	MinFanoutRatio float64 // minimum node occupancy as a fraction of B
	Utilization    float64 // target fill for Simple/FixedCount/STR/TGS tiling
	SortThreshold  int     // entries above which sorts spill to disk
	TempDir        string  // spill and level-stream directory, "" = os temp
	MemoryStreams  bool    // keep level streams in memory instead of files
	Async          bool    // overlap node writes with the next chunk
	Cost           rect.CostFunc
	DimOrder       []int // STR dimension cycle, nil = 0..dims-1
	Logger         *zap.SugaredLogger
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Strategy:       StrategyGOPT,
		PartitionSize:  20000,
		MinFanoutRatio: 0.5,
		Utilization:    0.8,
		SortThreshold:  1 << 15,
		Cost:           rect.Volume,
		Logger:         zap.NewNop().Sugar(),
	}
}

func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithPartitionSize bounds how many entries one pass holds in memory at a
// time. It is independent of node capacity.
func WithPartitionSize(n int) Option {
	return func(o *Options) { o.PartitionSize = n }
}

func WithMinFanoutRatio(r float64) Option {
	return func(o *Options) { o.MinFanoutRatio = r }
}

func WithUtilization(u float64) Option {
	return func(o *Options) { o.Utilization = u }
}

// WithSortThreshold sets the entry count above which STR and TGS sort
// externally instead of in place.
func WithSortThreshold(n int) Option {
	return func(o *Options) { o.SortThreshold = n }
}

func WithTempDir(dir string) Option {
	return func(o *Options) { o.TempDir = dir }
}

// WithMemoryLevelStreams keeps per-level summaries in memory rather than in
// temp files. Only sensible when the level sizes are known to be small.
func WithMemoryLevelStreams() Option {
	return func(o *Options) { o.MemoryStreams = true }
}

// WithAsyncWrites serializes and writes nodes on a single background worker
// so the next chunk's partitioning can proceed meanwhile. Each pass still
// joins the worker before its level stream is consumed.
func WithAsyncWrites() Option {
	return func(o *Options) { o.Async = true }
}

// WithCostFunc replaces the default volume cost. See rect.ExtendedVolume for
// the query-footprint variant.
func WithCostFunc(fn rect.CostFunc) Option {
	return func(o *Options) { o.Cost = fn }
}

// WithDimOrder sets the dimension cycle STR tiles along. Dimensions may
// repeat.
func WithDimOrder(order ...int) Option {
	return func(o *Options) { o.DimOrder = order }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *Options) { o.Logger = log }
}
