package fixedpoint

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spt/internal/intmath"
)

// Representation is a fixed-point view of a tap vector: Integers[i] / 2^Width
// approximates the original tap i.
type Representation struct {
	Integers []int64
	Width    int
}

// Len returns the number of taps.
func (r Representation) Len() int { return len(r.Integers) }

// Scale returns the denominator 2^Width.
func (r Representation) Scale() float64 {
	return math.Ldexp(1, r.Width)
}

// Float returns tap i back in real units.
func (r Representation) Float(i int) float64 {
	return math.Ldexp(float64(r.Integers[i]), -r.Width)
}

// Floats returns all taps back in real units.
func (r Representation) Floats() []float64 {
	out := make([]float64, len(r.Integers))
	for i := range r.Integers {
		out[i] = r.Float(i)
	}
	return out
}

// NumBits returns the exponent range a signed-power-of-two search needs to
// cover these integers: the larger of Width and the bit length of the
// largest magnitude.
func (r Representation) NumBits() int {
	return max(r.Width, intmath.BitLen(intmath.MaxAbs(r.Integers)))
}

// RequiredWidth returns ceil(-log2(min |tap|)) over the nonzero taps,
// clamped at zero.
func RequiredWidth(taps []float64) (int, error) {
	if len(taps) == 0 {
		return 0, ErrEmpty
	}

	minAbs := math.Inf(1)
	for i, v := range taps {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: index %d", ErrNonFinite, i)
		}
		if a := math.Abs(v); a != 0 && a < minAbs {
			minAbs = a
		}
	}
	if math.IsInf(minAbs, 1) {
		return 0, ErrAllZero
	}

	// minAbs = frac * 2^exp with frac in [0.5, 1), so -log2(minAbs) lies in
	// (-exp, 1-exp] and its ceiling is always 1-exp.
	_, exp := math.Frexp(minAbs)
	return max(1-exp, 0), nil
}

// Convert scales taps by the smallest sufficient power of two and rounds
// them to integers. It fails with *RangeExceededError when that power
// exceeds maxBitWidth.
func Convert(taps []float64, maxBitWidth int) (Representation, error) {
	if err := validateWidth(maxBitWidth); err != nil {
		return Representation{}, err
	}

	width, err := RequiredWidth(taps)
	if err != nil {
		return Representation{}, err
	}
	if width > maxBitWidth {
		return Representation{}, &RangeExceededError{Required: width, Max: maxBitWidth}
	}

	ints := make([]int64, len(taps))
	for i, v := range taps {
		q, err := ConvertScalar(v, width)
		if err != nil {
			return Representation{}, fmt.Errorf("tap %d: %w", i, err)
		}
		ints[i] = q
	}

	return Representation{Integers: ints, Width: width}, nil
}

// ConvertScalar converts a single coefficient at a given width with the
// same rounding as [Convert].
func ConvertScalar(x float64, width int) (int64, error) {
	if err := validateWidth(width); err != nil {
		return 0, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, ErrNonFinite
	}

	scaled := math.Round(math.Ldexp(x, width))
	if math.Abs(scaled) >= maxMagnitude {
		return 0, fmt.Errorf("%w: %g at width %d", ErrOverflow, x, width)
	}
	return int64(scaled), nil
}
