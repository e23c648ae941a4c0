package floor

// PickWeighted returns the first index whose cumulative weight exceeds
// draw, where draw is in [0, sum of weights). A draw at or past the total
// selects the last positive weight. Returns -1 when no weight is positive.
func PickWeighted(weights []float64, draw float64) int {
	last := -1
	var acc float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if draw < acc {
			return i
		}
	}
	return last
}

// totalWeight sums the positive weights
func totalWeight(weights []float64) float64 {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	return total
}
