package testutil

import (
	"math"
	"math/bits"
)

// BruteForceNearestError returns the smallest |sum(S) - target| over every
// subset S of exactly k elements of set. It walks bitmasks rather than
// index combinations so it shares no code with the search under test.
// Only meant for sets of up to ~20 elements.
func BruteForceNearestError(set []int64, target int64, k int) int64 {
	best := int64(math.MaxInt64)
	n := len(set)
	for mask := uint32(0); mask < 1<<n; mask++ {
		if bits.OnesCount32(mask) != k {
			continue
		}
		var sum int64
		for i := range n {
			if mask&(1<<i) != 0 {
				sum += set[i]
			}
		}
		d := sum - target
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
	}
	return best
}
