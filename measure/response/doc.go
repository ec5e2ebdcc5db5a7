// Package response compares the frequency response of a shift-add
// approximated FIR filter against its reference.
//
// [At] and [MagnitudeDB] evaluate H(e^{jw}) directly at a single normalized
// frequency. [Magnitude] samples |H| on an FFT grid, and [Compare] reports
// the deviation between two tap vectors in dB together with the relative
// spectral error energy and DC gain ratio.
package response
