package fixedpoint

import (
	"errors"
	"fmt"
)

// MaxWidth is the largest accepted bit width. Beyond the float64 mantissa
// the rounding step no longer has fractional bits to round.
const MaxWidth = 52

// maxMagnitude bounds scaled taps so sums of a few terms stay inside int64.
const maxMagnitude = 1 << 62

var (
	ErrEmpty        = errors.New("fixedpoint: no taps")
	ErrAllZero      = errors.New("fixedpoint: all taps are zero")
	ErrNonFinite    = errors.New("fixedpoint: tap is NaN or Inf")
	ErrInvalidWidth = errors.New("fixedpoint: width out of range")
	ErrOverflow     = errors.New("fixedpoint: scaled tap exceeds 62 bits")
)

// RangeExceededError reports that the taps need more fractional bits than
// the configured maximum.
type RangeExceededError struct {
	Required int
	Max      int
}

func (e *RangeExceededError) Error() string {
	return fmt.Sprintf("fixedpoint: required width %d exceeds maximum %d", e.Required, e.Max)
}

func validateWidth(width int) error {
	if width < 0 || width > MaxWidth {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrInvalidWidth, width, MaxWidth)
	}
	return nil
}
