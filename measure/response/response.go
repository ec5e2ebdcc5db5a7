package response

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spt/internal/intmath"
)

// Errors returned by response analysis.
var (
	ErrEmpty       = errors.New("response: no coefficients")
	ErrInvalidSize = errors.New("response: fft size must be a power of two >= tap count")
)

// DefaultFFTSize is used when a caller passes a non-positive size.
const DefaultFFTSize = 1024

// floorDB is the reference level below which bins are left out of the
// deviation statistics.
const floorDB = -120.0

// At computes H(e^{jw}) at normalized frequency freq (cycles per sample).
//
//	H = sum_{k=0}^{N-1} h[k] * e^{-j 2 pi freq k}
func At(coeffs []float64, freq float64) complex128 {
	w := 2 * math.Pi * freq
	var h complex128
	for k, c := range coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns 20*log10|H| at normalized frequency freq.
func MagnitudeDB(coeffs []float64, freq float64) float64 {
	return 20 * math.Log10(cmplx.Abs(At(coeffs, freq)))
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// spectrum returns the one-sided DFT (fftSize/2+1 bins) of the zero-padded
// coefficients, split into real and imaginary parts.
func spectrum(coeffs []float64, fftSize int) (re, im []float64, err error) {
	if len(coeffs) == 0 {
		return nil, nil, ErrEmpty
	}
	if fftSize <= 0 {
		fftSize = max(DefaultFFTSize, NextPowerOfTwo(len(coeffs)))
	}
	if fftSize < len(coeffs) || !intmath.IsPowerOfTwo(int64(fftSize)) {
		return nil, nil, fmt.Errorf("%w: %d for %d taps", ErrInvalidSize, fftSize, len(coeffs))
	}

	in := make([]complex128, fftSize)
	for i, c := range coeffs {
		in[i] = complex(c, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, nil, err
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, nil, err
	}

	bins := fftSize/2 + 1
	re = make([]float64, bins)
	im = make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	return re, im, nil
}

// Magnitude returns |H| at fftSize/2+1 evenly spaced bins from DC to
// Nyquist. A non-positive fftSize selects a default.
func Magnitude(coeffs []float64, fftSize int) ([]float64, error) {
	re, im, err := spectrum(coeffs, fftSize)
	if err != nil {
		return nil, err
	}
	mag := make([]float64, len(re))
	vecmath.Magnitude(mag, re, im)
	return mag, nil
}

// Comparison summarizes how far an approximated response is from its
// reference.
type Comparison struct {
	// MaxDeviationDB and RMSDeviationDB are taken over bins where the
	// reference is above -120 dB.
	MaxDeviationDB float64
	RMSDeviationDB float64
	// ErrorEnergy is sum|Ha-Hr|^2 / sum|Hr|^2 over all bins.
	ErrorEnergy float64
	// DCGainRatio is Ha(0)/Hr(0); 0 when the reference has no DC gain.
	DCGainRatio float64
	Bins        int
}

// Compare evaluates both tap vectors on the same FFT grid.
func Compare(reference, approx []float64, fftSize int) (Comparison, error) {
	if fftSize <= 0 {
		fftSize = max(DefaultFFTSize, NextPowerOfTwo(max(len(reference), len(approx))))
	}
	rRe, rIm, err := spectrum(reference, fftSize)
	if err != nil {
		return Comparison{}, fmt.Errorf("reference: %w", err)
	}
	aRe, aIm, err := spectrum(approx, fftSize)
	if err != nil {
		return Comparison{}, fmt.Errorf("approximation: %w", err)
	}

	n := len(rRe)
	rMag := make([]float64, n)
	aMag := make([]float64, n)
	vecmath.Magnitude(rMag, rRe, rIm)
	vecmath.Magnitude(aMag, aRe, aIm)

	dRe := make([]float64, n)
	dIm := make([]float64, n)
	for i := range n {
		dRe[i] = aRe[i] - rRe[i]
		dIm[i] = aIm[i] - rIm[i]
	}
	errPow := make([]float64, n)
	refPow := make([]float64, n)
	vecmath.Power(errPow, dRe, dIm)
	vecmath.Power(refPow, rRe, rIm)

	var c Comparison
	var sumErr, sumRef, sumSq float64
	floor := math.Pow(10, floorDB/20)
	for i := range n {
		sumErr += errPow[i]
		sumRef += refPow[i]
		if rMag[i] < floor {
			continue
		}
		dev := math.Abs(20 * math.Log10(math.Max(aMag[i], floor)/rMag[i]))
		c.MaxDeviationDB = math.Max(c.MaxDeviationDB, dev)
		sumSq += dev * dev
		c.Bins++
	}
	if c.Bins > 0 {
		c.RMSDeviationDB = math.Sqrt(sumSq / float64(c.Bins))
	}
	if sumRef > 0 {
		c.ErrorEnergy = sumErr / sumRef
	}
	if rRe[0] != 0 {
		c.DCGainRatio = aRe[0] / rRe[0]
	}
	return c, nil
}
