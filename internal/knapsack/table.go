package knapsack

// solveTable runs the capacity-indexed dynamic program. best[c] holds the
// maximum gain over the items seen so far with cost at most c; it is updated
// from high to low capacity so each item is used at most once. Bit c of an
// item's choice row is set when that item strictly improved best[c], which is
// exactly what the canonical reconstruction needs.
func solveTable(p *problem) []int {
	n := len(p.items)
	width := p.capacity + 1
	words := (width + 63) / 64

	best := make([]float64, width)
	choice := make([]uint64, int64(n)*words)

	for i := 0; i < n; i++ {
		cost := p.units[i]
		if cost > p.capacity {
			continue
		}
		gain := p.items[i].Gain
		row := choice[int64(i)*words : int64(i+1)*words]
		for c := p.capacity; c >= cost; c-- {
			candidate := best[c-cost] + gain
			if candidate > best[c] {
				best[c] = candidate
				row[c>>6] |= 1 << uint(c&63)
			}
		}
	}

	var selected []int
	c := p.capacity
	for i := n - 1; i >= 0; i-- {
		row := choice[int64(i)*words : int64(i+1)*words]
		if row[c>>6]&(1<<uint(c&63)) != 0 {
			selected = append(selected, i)
			c -= p.units[i]
		}
	}

	reverse(selected)
	return selected
}

func reverse(indices []int) {
	for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
		indices[i], indices[j] = indices[j], indices[i]
	}
}
