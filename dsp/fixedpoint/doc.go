// Package fixedpoint rescales real-valued filter taps into integers.
//
// [Convert] picks the smallest non-negative width w such that the
// smallest nonzero tap, multiplied by 2^w, has magnitude of at least one,
// then rounds every tap·2^w to the nearest integer. Rounding is
// round-half-away-from-zero ([math.Round]) everywhere in this package,
// including [ConvertScalar].
//
// The integer taps divided by [Representation.Scale] reproduce the input to
// within half a unit in the last place (2^-(w+1)).
package fixedpoint
