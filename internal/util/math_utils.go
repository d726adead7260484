package util

import "math"

// CeilPortion returns ceil(ratio * count). Rounds up, never down, so a
// single-item input always yields a non-empty portion.
func CeilPortion(count int, ratio float64) int {
	if count <= 0 {
		return 0
	}
	return int(math.Ceil(ratio * float64(count)))
}
