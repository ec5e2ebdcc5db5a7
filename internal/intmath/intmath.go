// Package intmath holds small generic integer helpers shared by the
// approximation packages.
package intmath

import (
	"math"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Abs returns |x|. The most negative value of T is returned unchanged.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or +1.
func Sign[T constraints.Signed](x T) T {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// Sum returns the sum of xs.
func Sum[T constraints.Integer](xs []T) T {
	var s T
	for _, x := range xs {
		s += x
	}
	return s
}

// SumInt64 returns the sum of xs and false if it overflows int64.
func SumInt64(xs []int64) (int64, bool) {
	var s int64
	for _, x := range xs {
		if (x > 0 && s > math.MaxInt64-x) || (x < 0 && s < math.MinInt64-x) {
			return 0, false
		}
		s += x
	}
	return s, true
}

// MaxAbs returns the largest |x| in xs, or 0 for an empty slice.
func MaxAbs[T constraints.Signed](xs []T) T {
	var m T
	for _, x := range xs {
		if a := Abs(x); a > m {
			m = a
		}
	}
	return m
}

// BitLen returns the number of bits needed to represent |x|.
// BitLen(0) is 0.
func BitLen(x int64) int {
	return bits.Len64(uint64(Abs(x)))
}

// IsPowerOfTwo reports whether |x| is a power of two.
func IsPowerOfTwo(x int64) bool {
	a := Abs(x)
	return a > 0 && a&(a-1) == 0
}
