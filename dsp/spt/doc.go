// Package spt approximates real FIR taps with sums of signed powers of two
// (SPT terms) so that each multiplication becomes a few shifts and adds.
//
// [Approximate] runs the whole chain: the taps are scaled to integers by
// dsp/fixedpoint, a term budget is distributed by dsp/spt/alloc, and the
// result carries the integer approximations together with a global
// signed power-of-two scale factor such that
//
//	tap[i] ≈ Approx[i] / Scale
//
// The lower-level packages can be used directly when the taps are already
// integers.
package spt
