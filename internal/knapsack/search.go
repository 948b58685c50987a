package knapsack

import (
	"errors"
	"fmt"
	"sort"
)

var errSearchBudget = errors.New("search node budget exhausted")

// boundSlack widens the fractional bound past the rounding of its own sum,
// so pruning never cuts off a subset whose float total beats the incumbent.
const boundSlack = 1e-12

// search answers "best gain using the first k items within c units" exactly
// with a depth-first branch and bound. The node budget is shared by every
// query made during one Optimize call.
type search struct {
	p        *problem
	maxNodes int64
	nodes    int64

	order []int
	best  float64
}

// solveSearch reproduces the canonical table reconstruction without the
// table: walking items from last to first, item i is selected only when the
// best gain over items [0, i] strictly exceeds the best over items [0, i).
func solveSearch(p *problem, maxNodes int64) ([]int, error) {
	s := &search{p: p, maxNodes: maxNodes}

	c := p.capacity
	current, err := s.maxGain(len(p.items), c)
	if err != nil {
		return nil, s.limitError(err)
	}

	var selected []int
	for i := len(p.items) - 1; i >= 0; i-- {
		if p.units[i] > c {
			continue
		}
		without, err := s.maxGain(i, c)
		if err != nil {
			return nil, s.limitError(err)
		}
		if current <= without {
			current = without
			continue
		}
		selected = append(selected, i)
		c -= p.units[i]
		if current, err = s.maxGain(i, c); err != nil {
			return nil, s.limitError(err)
		}
	}

	reverse(selected)
	return selected, nil
}

func (s *search) limitError(err error) error {
	return &LimitError{
		Items:         len(s.p.items),
		CapacityUnits: s.p.capacity,
		Reason:        fmt.Sprintf("%v after %d nodes", err, s.nodes),
	}
}

// maxGain returns the best gain using items [0, prefix) within capacity units.
func (s *search) maxGain(prefix int, capacity int64) (float64, error) {
	order := make([]int, 0, prefix)
	for i := 0; i < prefix; i++ {
		// Zero-gain items never raise the optimum and oversized ones never fit.
		if s.p.items[i].Gain > 0 && s.p.units[i] <= capacity {
			order = append(order, i)
		}
	}
	// Densest first; cross-multiplied so zero-cost items sort ahead of all.
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		return s.p.items[ia].Gain*float64(s.p.units[ib]) > s.p.items[ib].Gain*float64(s.p.units[ia])
	})

	s.order = order
	s.best = 0
	if err := s.descend(0, capacity, 0); err != nil {
		return 0, err
	}
	return s.best, nil
}

func (s *search) descend(k int, remaining int64, gain float64) error {
	s.nodes++
	if s.nodes > s.maxNodes {
		return errSearchBudget
	}
	if gain > s.best {
		s.best = gain
	}
	if k == len(s.order) {
		return nil
	}
	if upper := s.bound(k, remaining, gain); upper+upper*boundSlack <= s.best {
		return nil
	}

	idx := s.order[k]
	if u := s.p.units[idx]; u <= remaining {
		if err := s.descend(k+1, remaining-u, gain+s.p.items[idx].Gain); err != nil {
			return err
		}
	}
	return s.descend(k+1, remaining, gain)
}

// bound is the fractional relaxation: fill greedily by density and take the
// first item that does not fit in proportion.
func (s *search) bound(k int, remaining int64, gain float64) float64 {
	for _, idx := range s.order[k:] {
		u := s.p.units[idx]
		if u <= remaining {
			remaining -= u
			gain += s.p.items[idx].Gain
			continue
		}
		return gain + s.p.items[idx].Gain*float64(remaining)/float64(u)
	}
	return gain
}
