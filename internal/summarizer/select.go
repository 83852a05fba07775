package summarizer

import (
	"cmp"
	"math"
	"slices"
)

// TopN is max(1, round(rate·n)) with ties rounded to even.
func TopN(rate float64, n int) int {
	return min(max(1, int(math.RoundToEven(rate*float64(n)))), max(n, 1))
}

// SelectTop returns the indices of the topN highest scores in ascending
// order. Equal scores prefer the lower index.
func SelectTop(scores []float64, topN int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	selected := slices.Clone(order[:min(topN, len(order))])
	slices.Sort(selected)
	return selected
}
