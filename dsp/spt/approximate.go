package spt

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"slices"

	"github.com/cwbudde/algo-spt/dsp/fixedpoint"
	"github.com/cwbudde/algo-spt/dsp/spt/alloc"
	"github.com/cwbudde/algo-spt/internal/intmath"
	"github.com/cwbudde/algo-spt/measure/response"
)

// ErrZeroGain is returned for ScaleUnityGain when the approximated taps sum
// to zero.
var ErrZeroGain = errors.New("spt: approximated taps have zero DC gain")

// ErrScaleRange is returned for ScaleUnityGain when the DC gain or its
// power-of-two scale factor does not fit in an int64.
var ErrScaleRange = errors.New("spt: unity-gain scale factor out of range")

// Term is one signed power of two: ±(1 << Shift).
type Term struct {
	Shift    int
	Negative bool
}

// Value returns the integer value of the term.
func (t Term) Value() int64 {
	if t.Negative {
		return -(int64(1) << t.Shift)
	}
	return int64(1) << t.Shift
}

func (t Term) String() string {
	if t.Negative {
		return fmt.Sprintf("-2^%d", t.Shift)
	}
	return fmt.Sprintf("+2^%d", t.Shift)
}

// Result is the outcome of Approximate.
type Result struct {
	// Width is the fixed-point width w of the integer taps.
	Width int
	// NumBits is the exponent range of the candidate set.
	NumBits int
	Exact   []int64
	Approx  []int64
	// Scale is the signed power-of-two denominator, Scale = ±2^ScaleShift.
	Scale      int64
	ScaleShift int
	ScaleMode  ScaleMode
	Report     *alloc.Report
	// Response is set when a response check was requested.
	Response *response.Comparison
}

// Coefficients returns Approx[i] / Scale.
func (r *Result) Coefficients() []float64 {
	out := make([]float64, len(r.Approx))
	s := float64(r.Scale)
	for i, a := range r.Approx {
		out[i] = float64(a) / s
	}
	return out
}

// Terms returns the non-zero SPT terms of tap i, largest shift first.
func (r *Result) Terms(i int) []Term {
	t := r.Report.Taps[i]
	out := make([]Term, 0, len(t.Terms))
	for _, v := range t.Terms {
		if v == 0 {
			continue
		}
		out = append(out, Term{
			Shift:    bits.TrailingZeros64(uint64(intmath.Abs(v))),
			Negative: v < 0,
		})
	}
	slices.SortStableFunc(out, func(a, b Term) int {
		return cmp.Compare(b.Shift, a.Shift)
	})
	return out
}

// Adders returns the number of two-input adders needed to realize every
// tap: one fewer than its non-zero terms.
func (r *Result) Adders() int {
	n := 0
	for i := range r.Approx {
		if k := len(r.Terms(i)); k > 1 {
			n += k - 1
		}
	}
	return n
}

// Approximate scales taps to fixed point, distributes the term budget and
// derives the global scale factor.
func Approximate(ctx context.Context, taps []float64, opts ...Option) (*Result, error) {
	cfg := ApplyOptions(opts...)
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	rep, err := fixedpoint.Convert(taps, cfg.MaxBitWidth)
	if err != nil {
		return nil, err
	}
	numBits := cfg.NumBits
	if numBits == 0 {
		numBits = rep.NumBits()
	}
	budget := cfg.Budget
	if !cfg.budgetSet {
		budget = cfg.MaxTerms * rep.Len()
		if budget == 0 {
			budget = 2 * rep.Len()
		}
	}
	log.Debug("fixed point", "width", rep.Width, "num_bits", numBits, "budget", budget)

	report, err := alloc.Allocate(ctx, rep.Integers, alloc.Config{
		Strategy:          cfg.Strategy,
		Budget:            budget,
		NumBits:           numBits,
		MaxTerms:          cfg.MaxTerms,
		Boundary:          cfg.Boundary,
		BoundaryTolerance: cfg.BoundaryTolerance,
		WithoutZero:       cfg.WithoutZero,
		Workers:           cfg.Workers,
		MaxCombinations:   cfg.MaxCombinations,
		Logger:            log,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Width:     rep.Width,
		NumBits:   numBits,
		Exact:     rep.Integers,
		Approx:    report.Approximations(),
		ScaleMode: cfg.ScaleMode,
		Report:    report,
	}
	if err := res.setScale(); err != nil {
		return nil, err
	}

	if cfg.FFTSize > 0 {
		c, err := response.Compare(taps, res.Coefficients(), cfg.FFTSize)
		if err != nil {
			return nil, fmt.Errorf("spt: response check: %w", err)
		}
		res.Response = &c
		log.Debug("response", "max_dev_db", c.MaxDeviationDB, "rms_dev_db", c.RMSDeviationDB)
	}
	return res, nil
}

func (r *Result) setScale() error {
	switch r.ScaleMode {
	case ScaleFixedPoint:
		r.ScaleShift = r.Width
		r.Scale = int64(1) << r.Width
	case ScaleUnityGain:
		sum, ok := intmath.SumInt64(r.Approx)
		if !ok {
			return fmt.Errorf("%w: sum of taps overflows", ErrScaleRange)
		}
		if sum == 0 {
			return ErrZeroGain
		}
		shift := int(math.Round(math.Log2(math.Abs(float64(sum)))))
		if shift > 62 {
			return fmt.Errorf("%w: 2^%d", ErrScaleRange, shift)
		}
		r.ScaleShift = shift
		r.Scale = intmath.Sign(sum) * (int64(1) << shift)
	default:
		return fmt.Errorf("spt: unknown scale mode %d", int(r.ScaleMode))
	}
	return nil
}
