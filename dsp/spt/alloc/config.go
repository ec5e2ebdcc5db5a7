package alloc

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-spt/dsp/spt/search"
)

// DefaultBoundaryTolerance scales the standard deviation of the tap
// log-magnitudes when the hybrid strategy picks its boundary.
const DefaultBoundaryTolerance = 0.5

// Config parameterizes one allocation run.
type Config struct {
	Strategy Strategy
	// Budget is the total number of terms to distribute. Ignored by PerTap.
	Budget int
	// NumBits sets the candidate set {±2^0 … ±2^NumBits}.
	NumBits int
	// MaxTerms caps the terms of a single tap; 0 means no cap beyond the
	// candidate set size. PerTap requires MaxTerms > 0.
	MaxTerms int
	// Boundary is the number of largest taps receiving the uniform base
	// allocation. 0 selects all taps for Uniform and the log-magnitude
	// heuristic for Hybrid.
	Boundary int
	// BoundaryTolerance is used by the Hybrid heuristic; 0 selects
	// DefaultBoundaryTolerance.
	BoundaryTolerance float64
	// WithoutZero removes zero from the candidate set.
	WithoutZero bool
	// Workers > 1 runs uniform base passes concurrently.
	Workers int
	// MaxCombinations caps a single search call; 0 selects
	// search.DefaultMaxCombinations.
	MaxCombinations uint64
	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

func (c Config) validate(n int) error {
	if n == 0 {
		return ErrNoTaps
	}
	if !c.Strategy.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(c.Strategy))
	}
	if c.MaxTerms < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxTerms, c.MaxTerms)
	}
	if c.Strategy == PerTap {
		if c.MaxTerms == 0 {
			return fmt.Errorf("%w: per-tap strategy needs max terms > 0", ErrInvalidMaxTerms)
		}
		return nil
	}
	if c.Budget <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBudget, c.Budget)
	}
	if c.Boundary < 0 || c.Boundary > n {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrInvalidBoundary, c.Boundary, n)
	}
	if c.BoundaryTolerance < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidTolerance, c.BoundaryTolerance)
	}
	return nil
}

func (c Config) searcher() (*search.Searcher, error) {
	var opts []search.CandidateOption
	if c.WithoutZero {
		opts = append(opts, search.WithoutZero())
	}
	set, err := search.NewCandidateSet(c.NumBits, opts...)
	if err != nil {
		return nil, err
	}
	return search.New(set, search.WithMaxCombinations(c.MaxCombinations)), nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (c Config) tolerance() float64 {
	if c.BoundaryTolerance == 0 {
		return DefaultBoundaryTolerance
	}
	return c.BoundaryTolerance
}
