// Package testutil provides common utility functions for testing.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/iwvelando/portfolio-optimizer/internal/knapsack"
)

// BruteForceBestGain enumerates every subset of items and returns the largest
// total gain whose total cost does not exceed capacity. Only suitable for
// small inputs (len(items) <= 20).
func BruteForceBestGain(capacity float64, items []knapsack.Item) float64 {
	best := 0.0
	for mask := 0; mask < 1<<len(items); mask++ {
		cost, gain := SubsetTotals(items, mask)
		if cost <= capacity && gain > best {
			best = gain
		}
	}
	return best
}

// SubsetTotals sums cost and gain of the items whose bit is set in mask.
func SubsetTotals(items []knapsack.Item, mask int) (cost, gain float64) {
	for i, item := range items {
		if mask&(1<<i) != 0 {
			cost += item.Cost
			gain += item.Gain
		}
	}
	return cost, gain
}

// RandomItems generates n items with integer costs in [0, maxCost] and
// integer gains in [0, maxGain]. Integer amounts keep sums exact.
func RandomItems(rng *rand.Rand, n, maxCost, maxGain int) []knapsack.Item {
	items := make([]knapsack.Item, n)
	for i := range items {
		items[i] = knapsack.Item{
			Name: fmt.Sprintf("P%02d", i),
			Cost: float64(rng.Intn(maxCost + 1)),
			Gain: float64(rng.Intn(maxGain + 1)),
		}
	}
	return items
}

// ItemsByName indexes items by name for lookups in assertions.
func ItemsByName(items []knapsack.Item) map[string]knapsack.Item {
	byName := make(map[string]knapsack.Item, len(items))
	for _, item := range items {
		byName[item.Name] = item
	}
	return byName
}
