package knapsack

import (
	"strings"

	"github.com/iwvelando/portfolio-optimizer/pkg/mathutil"
)

// maxUnits keeps unit sums clear of int64 overflow.
const maxUnits int64 = 1 << 62

// problem is a validated request mapped onto the integer cost grid.
type problem struct {
	items []Item
	units []int64
	// capacity is the effective budget in grid units, clamped to the total
	// cost of all items.
	capacity int64
	scale    int64
}

func newProblem(capacity float64, items []Item, scale int64) (*problem, error) {
	if !mathutil.IsFinite(capacity) {
		return nil, &CapacityError{Value: capacity, Reason: "must be a finite number"}
	}
	if capacity < 0 {
		return nil, &CapacityError{Value: capacity, Reason: "must not be negative"}
	}

	units := make([]int64, len(items))
	var total int64
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, &ItemError{Index: i, Field: FieldName, Reason: "must not be empty"}
		}
		if err := checkAmount(i, FieldCost, item.Cost); err != nil {
			return nil, err
		}
		if err := checkAmount(i, FieldGain, item.Gain); err != nil {
			return nil, err
		}
		u, ok := mathutil.ToUnits(item.Cost, scale)
		if !ok {
			return nil, &ItemError{Index: i, Field: FieldCost, Value: item.Cost, Reason: "is not representable at the configured cost precision"}
		}
		units[i] = u
		total += u
		if total > maxUnits {
			total = maxUnits
		}
	}

	capUnits := mathutil.FloorUnits(capacity, scale)
	if capUnits > total {
		capUnits = total
	}

	return &problem{
		items:    items,
		units:    units,
		capacity: capUnits,
		scale:    scale,
	}, nil
}

func checkAmount(index int, field string, value float64) error {
	if !mathutil.IsFinite(value) {
		return &ItemError{Index: index, Field: field, Value: value, Reason: "must be a finite number"}
	}
	if value < 0 {
		return &ItemError{Index: index, Field: field, Value: value, Reason: "must not be negative"}
	}
	return nil
}

// result assembles the Result from ascending selected indices. Totals are
// summed over the selection; the cost is summed in grid units so it can never
// round above the capacity.
func (p *problem) result(selected []int, strategy Strategy) *Result {
	res := &Result{
		Selected: selected,
		Names:    make([]string, 0, len(selected)),
		Strategy: strategy,
	}
	if res.Selected == nil {
		res.Selected = []int{}
	}

	var costUnits int64
	for _, idx := range selected {
		res.Names = append(res.Names, p.items[idx].Name)
		res.TotalGain += p.items[idx].Gain
		costUnits += p.units[idx]
	}
	res.TotalCost = mathutil.FromUnits(costUnits, p.scale)
	return res
}
