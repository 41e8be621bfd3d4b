package partition

import (
	"math"

	"github.com/spatialpack/go-rtree/rect"
)

// Infeasible marks window-cost and covering-cost entries that do not
// correspond to a valid choice. It never compares less than a real cost.
var Infeasible = math.Inf(1)

// Feasible reports whether c is the cost of an actual covering.
func Feasible(c float64) bool {
	return !math.IsInf(c, 1)
}

// Processor answers window-cost queries for the partitioning algorithms.
//
// WindowCosts returns a slice of length B where entry j is the cost of the
// union of rs[end-j .. end]. Entries for j < b-1, and for windows that would
// extend past the start of rs, are Infeasible.
//
// Memoizing implementations key cached results by end only. Callers MUST call
// Reset between independent chunks, and must not vary rs, b or B between
// resets; stale costs from a previous chunk are otherwise served silently.
type Processor interface {
	WindowCosts(rs []rect.Rectangle, b, B, end int) []float64

	// AllCosts returns the full matrix m where m[i][j] is the cost of the
	// union of rs[i..j] for j >= i, and Infeasible below the diagonal.
	// Implementations that cannot afford the O(n^2) space return
	// ErrUnsupported.
	AllCosts(rs []rect.Rectangle) ([][]float64, error)

	Reset()
}

// computeWindowCosts walks the window backwards from end, growing one
// accumulator box and sampling the cost at every admissible length.
func computeWindowCosts(costFn rect.CostFunc, rs []rect.Rectangle, b, B, end int) []float64 {
	costs := make([]float64, B)
	for j := range costs {
		costs[j] = Infeasible
	}
	if end < 0 || end >= len(rs) {
		return costs
	}
	acc := rs[end].Clone()
	for j := 0; j < B && end-j >= 0; j++ {
		if j > 0 {
			acc.Extend(rs[end-j])
		}
		if j >= b-1 {
			costs[j] = costFn(acc)
		}
	}
	return costs
}

func computeAllCosts(costFn rect.CostFunc, rs []rect.Rectangle) [][]float64 {
	n := len(rs)
	m := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		for j := 0; j < i; j++ {
			row[j] = Infeasible
		}
		acc := rs[i].Clone()
		row[i] = costFn(acc)
		for j := i + 1; j < n; j++ {
			acc.Extend(rs[j])
			row[j] = costFn(acc)
		}
		m[i] = row
	}
	return m
}

// MemoProcessor caches window costs keyed by end index. Suited to the
// fixed-count algorithm, which revisits every end position once per matrix
// row.
type MemoProcessor struct {
	costFn rect.CostFunc
	memo   map[int][]float64
}

func NewMemoProcessor(costFn rect.CostFunc) *MemoProcessor {
	if costFn == nil {
		costFn = rect.Volume
	}
	return &MemoProcessor{costFn: costFn, memo: map[int][]float64{}}
}

func (p *MemoProcessor) WindowCosts(rs []rect.Rectangle, b, B, end int) []float64 {
	if c, ok := p.memo[end]; ok {
		return c
	}
	c := computeWindowCosts(p.costFn, rs, b, B, end)
	p.memo[end] = c
	return c
}

func (p *MemoProcessor) AllCosts(rs []rect.Rectangle) ([][]float64, error) {
	return computeAllCosts(p.costFn, rs), nil
}

func (p *MemoProcessor) Reset() {
	clear(p.memo)
}

// FixedProcessor caches window costs in a table sized for a known maximum
// chunk length. End positions beyond the capacity are computed but not
// cached. It cannot materialize the full cost matrix.
type FixedProcessor struct {
	costFn rect.CostFunc
	table  [][]float64
}

func NewFixedProcessor(costFn rect.CostFunc, capacity int) *FixedProcessor {
	if costFn == nil {
		costFn = rect.Volume
	}
	if capacity < 0 {
		capacity = 0
	}
	return &FixedProcessor{costFn: costFn, table: make([][]float64, capacity)}
}

func (p *FixedProcessor) WindowCosts(rs []rect.Rectangle, b, B, end int) []float64 {
	if end >= 0 && end < len(p.table) {
		if p.table[end] != nil {
			return p.table[end]
		}
		c := computeWindowCosts(p.costFn, rs, b, B, end)
		p.table[end] = c
		return c
	}
	return computeWindowCosts(p.costFn, rs, b, B, end)
}

func (p *FixedProcessor) AllCosts(rs []rect.Rectangle) ([][]float64, error) {
	return nil, ErrUnsupported
}

func (p *FixedProcessor) Reset() {
	for i := range p.table {
		p.table[i] = nil
	}
}

// OneShotProcessor recomputes every query. For algorithms that visit each
// window once there is nothing worth caching.
type OneShotProcessor struct {
	costFn rect.CostFunc
}

func NewOneShotProcessor(costFn rect.CostFunc) *OneShotProcessor {
	if costFn == nil {
		costFn = rect.Volume
	}
	return &OneShotProcessor{costFn: costFn}
}

func (p *OneShotProcessor) WindowCosts(rs []rect.Rectangle, b, B, end int) []float64 {
	return computeWindowCosts(p.costFn, rs, b, B, end)
}

func (p *OneShotProcessor) AllCosts(rs []rect.Rectangle) ([][]float64, error) {
	return computeAllCosts(p.costFn, rs), nil
}

func (p *OneShotProcessor) Reset() {}
