package spt

import (
	"log/slog"

	"github.com/cwbudde/algo-spt/dsp/spt/alloc"
)

// ScaleMode selects how the global scale factor is derived.
type ScaleMode int

const (
	// ScaleFixedPoint uses the fixed-point denominator 2^w.
	ScaleFixedPoint ScaleMode = iota
	// ScaleUnityGain normalizes the approximated filter to unit DC gain:
	// sign(sum) * 2^round(log2|sum|) over the approximated integers.
	ScaleUnityGain
)

func (m ScaleMode) String() string {
	switch m {
	case ScaleFixedPoint:
		return "fixed"
	case ScaleUnityGain:
		return "unity"
	}
	return "unknown"
}

// Config holds the settings of an Approximate call.
type Config struct {
	Strategy alloc.Strategy
	// Budget is the total number of SPT terms. When unset it defaults to
	// MaxTerms per tap.
	Budget    int
	budgetSet bool
	// MaxTerms caps the terms of a single tap.
	MaxTerms    int
	MaxBitWidth int
	// NumBits overrides the candidate exponent range derived from the
	// fixed-point taps.
	NumBits           int
	Boundary          int
	BoundaryTolerance float64
	Workers           int
	MaxCombinations   uint64
	WithoutZero       bool
	ScaleMode         ScaleMode
	// FFTSize > 0 enables the frequency-response comparison.
	FFTSize int
	Logger  *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults: hybrid allocation, two terms per tap,
// up to 20 fractional bits.
func DefaultConfig() Config {
	return Config{
		Strategy:    alloc.Hybrid,
		MaxTerms:    2,
		MaxBitWidth: 20,
	}
}

// WithStrategy selects the allocation strategy.
func WithStrategy(s alloc.Strategy) Option {
	return func(cfg *Config) {
		cfg.Strategy = s
	}
}

// WithBudget sets the total term budget. Unlike the other options an
// invalid value is kept, so that Approximate rejects it.
func WithBudget(budget int) Option {
	return func(cfg *Config) {
		cfg.Budget = budget
		cfg.budgetSet = true
	}
}

// WithMaxTerms caps the number of terms per tap. 0 removes the cap.
func WithMaxTerms(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.MaxTerms = n
		}
	}
}

// WithMaxBitWidth sets the largest accepted fixed-point width.
func WithMaxBitWidth(w int) Option {
	return func(cfg *Config) {
		if w >= 0 {
			cfg.MaxBitWidth = w
		}
	}
}

// WithNumBits fixes the candidate exponent range.
func WithNumBits(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.NumBits = n
		}
	}
}

// WithBoundary sets the number of largest taps in the uniform base pass.
func WithBoundary(b int) Option {
	return func(cfg *Config) {
		if b > 0 {
			cfg.Boundary = b
		}
	}
}

// WithBoundaryTolerance sets the hybrid boundary tolerance in standard
// deviations.
func WithBoundaryTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol > 0 {
			cfg.BoundaryTolerance = tol
		}
	}
}

// WithWorkers runs uniform base passes on up to n goroutines.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithMaxCombinations caps the subsets scanned by a single search.
func WithMaxCombinations(n uint64) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxCombinations = n
		}
	}
}

// WithoutZero removes zero from the candidate set.
func WithoutZero() Option {
	return func(cfg *Config) {
		cfg.WithoutZero = true
	}
}

// WithScaleMode selects the scale factor derivation.
func WithScaleMode(m ScaleMode) Option {
	return func(cfg *Config) {
		cfg.ScaleMode = m
	}
}

// WithResponseCheck compares the approximated and original responses on an
// fftSize-point grid.
func WithResponseCheck(fftSize int) Option {
	return func(cfg *Config) {
		if fftSize > 0 {
			cfg.FFTSize = fftSize
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
