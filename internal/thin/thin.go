// Package thin reduces sorted lists while keeping neighbour spacing even.
package thin

import "math"

// RemoveFraction removes round(len(items)*fraction) elements from items, which
// must be sorted ascending by key. Each step greedily drops the interior element
// whose removal disturbs the local gaps least, then re-scans the shortened list.
// Ties go to the lowest index. The first and last elements are never removed,
// so removal stops early once only they remain. items is not modified.
func RemoveFraction[T any](items []T, fraction float64, key func(T) float64) []T {
	count := int(math.RoundToEven(float64(len(items)) * fraction))
	if count <= 0 || len(items) <= 1 {
		return items
	}

	result := make([]T, len(items))
	copy(result, items)
	for i := 0; i < count && len(result) > 2; i++ {
		idx := leastDisruptive(result, key)
		result = append(result[:idx], result[idx+1:]...)
	}
	return result
}

// Disruption measures how much removing the middle of three neighbours changes
// the gaps around it.
func Disruption(prev, cur, next float64) float64 {
	prevGap := cur - prev
	nextGap := next - cur
	newGap := next - prev
	return math.Abs(newGap-prevGap) + math.Abs(newGap-nextGap)
}

func leastDisruptive[T any](items []T, key func(T) float64) int {
	best := 1
	bestScore := math.Inf(1)
	for j := 1; j < len(items)-1; j++ {
		score := Disruption(key(items[j-1]), key(items[j]), key(items[j+1]))
		if score < bestScore {
			bestScore = score
			best = j
		}
	}
	return best
}
