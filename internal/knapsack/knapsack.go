// Package knapsack selects the subset of investment projects that maximizes
// total gain without exceeding a budget (the 0/1 knapsack problem).
//
// Every call is exact and deterministic. When several subsets share the
// maximum gain the canonical one is returned: items are examined from last to
// first and an item is selected only when including it is strictly required
// to reach the optimum for the remaining budget. Callers may run Optimize
// concurrently; each call owns its tables.
package knapsack

import (
	"fmt"
	"time"

	"github.com/iwvelando/portfolio-optimizer/pkg/constants"
	"github.com/iwvelando/portfolio-optimizer/pkg/mathutil"
	"go.uber.org/zap"
)

// Item is a candidate project.
type Item struct {
	Name string
	Cost float64
	Gain float64
}

// Strategy names the exact algorithm that produced a Result.
type Strategy string

const (
	// StrategyDynamicProgramming fills a table indexed by capacity units.
	StrategyDynamicProgramming Strategy = "dynamic-programming"
	// StrategyBranchAndBound searches subsets with a fractional upper bound.
	StrategyBranchAndBound Strategy = "branch-and-bound"
)

// Result is the optimal selection. Selected and Names are ordered by
// ascending input index.
type Result struct {
	Selected  []int
	Names     []string
	TotalGain float64
	TotalCost float64
	Strategy  Strategy
}

// Limits bound the work a single Optimize call may do.
type Limits struct {
	// CostDecimals is the number of decimal places a cost may carry.
	CostDecimals int
	// MaxCells caps items x (capacity units + 1) for the table strategy.
	MaxCells int64
	// MaxCapacityUnits caps the table width.
	MaxCapacityUnits int64
	// MaxSearchItems is the largest item count accepted by the search
	// fallback. Zero disables the fallback.
	MaxSearchItems int
	// MaxSearchNodes caps the nodes the search fallback may visit per call.
	MaxSearchNodes int64
}

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		CostDecimals:     constants.DefaultCostDecimals,
		MaxCells:         constants.DefaultMaxCells,
		MaxCapacityUnits: constants.DefaultMaxCapacityUnits,
		MaxSearchItems:   constants.DefaultMaxSearchItems,
		MaxSearchNodes:   constants.DefaultMaxSearchNodes,
	}
}

// Validate checks that the limits are usable.
func (l Limits) Validate() error {
	if l.CostDecimals < 0 || l.CostDecimals > constants.MaxCostDecimals {
		return fmt.Errorf("cost decimals must be between 0 and %d, got %d", constants.MaxCostDecimals, l.CostDecimals)
	}
	if l.MaxCells <= 0 {
		return fmt.Errorf("max cells must be positive, got %d", l.MaxCells)
	}
	if l.MaxCapacityUnits <= 0 {
		return fmt.Errorf("max capacity units must be positive, got %d", l.MaxCapacityUnits)
	}
	if l.MaxSearchItems < 0 {
		return fmt.Errorf("max search items must not be negative, got %d", l.MaxSearchItems)
	}
	if l.MaxSearchItems > 0 && l.MaxSearchNodes <= 0 {
		return fmt.Errorf("max search nodes must be positive when the search fallback is enabled, got %d", l.MaxSearchNodes)
	}
	return nil
}

// Solver runs optimizations under a fixed set of limits. It holds no mutable
// state and is safe for concurrent use.
type Solver struct {
	logger *zap.Logger
	limits Limits
	scale  int64
}

// NewSolver constructs a Solver for the provided limits.
func NewSolver(logger *zap.Logger, limits Limits) (*Solver, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{
		logger: logger,
		limits: limits,
		scale:  mathutil.Scale(limits.CostDecimals),
	}, nil
}

// Limits returns the limits the solver enforces.
func (s *Solver) Limits() Limits {
	return s.limits
}

// Optimize solves the problem with DefaultLimits.
func Optimize(capacity float64, items []Item) (*Result, error) {
	solver, err := NewSolver(nil, DefaultLimits())
	if err != nil {
		return nil, err
	}
	return solver.Optimize(capacity, items)
}

// Optimize returns the maximum-gain subset of items whose total cost does not
// exceed capacity. Inputs are validated before any work is done; a non-nil
// Result is always exact.
func (s *Solver) Optimize(capacity float64, items []Item) (*Result, error) {
	start := time.Now()

	p, err := newProblem(capacity, items, s.scale)
	if err != nil {
		return nil, err
	}

	strategy, err := s.chooseStrategy(p)
	if err != nil {
		return nil, err
	}

	var selected []int
	switch strategy {
	case StrategyDynamicProgramming:
		selected = solveTable(p)
	case StrategyBranchAndBound:
		selected, err = solveSearch(p, s.limits.MaxSearchNodes)
		if err != nil {
			return nil, err
		}
	}

	result := p.result(selected, strategy)

	s.logger.Debug("optimization solved",
		zap.String("op", "knapsack.Optimize"),
		zap.String("strategy", string(strategy)),
		zap.Int("items", len(items)),
		zap.Int64("capacityUnits", p.capacity),
		zap.Int("selected", len(result.Selected)),
		zap.Float64("totalGain", result.TotalGain),
		zap.Float64("totalCost", result.TotalCost),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// chooseStrategy applies the resource ceiling before anything is allocated.
func (s *Solver) chooseStrategy(p *problem) (Strategy, error) {
	n := int64(len(p.items))
	width := p.capacity + 1

	fitsTable := width <= s.limits.MaxCapacityUnits && (n == 0 || width <= s.limits.MaxCells/n)
	if fitsTable {
		return StrategyDynamicProgramming, nil
	}
	if len(p.items) <= s.limits.MaxSearchItems {
		return StrategyBranchAndBound, nil
	}

	return "", &LimitError{
		Items:         len(p.items),
		CapacityUnits: p.capacity,
		Reason: fmt.Sprintf("table would need %d cells (limit %d, width limit %d) and the search fallback accepts at most %d items",
			saturatingMul(n, width), s.limits.MaxCells, s.limits.MaxCapacityUnits, s.limits.MaxSearchItems),
	}
}

func saturatingMul(a, b int64) int64 {
	if a != 0 && b > maxUnits/a {
		return maxUnits
	}
	return a * b
}
