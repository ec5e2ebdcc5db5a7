package search

import (
	"context"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/cwbudde/algo-spt/internal/intmath"
)

// DefaultMaxCombinations caps a single search call.
const DefaultMaxCombinations = 1 << 26

// maxCombinationsLimit bounds any configured cap so that subset counts
// always fit in an int.
const maxCombinationsLimit = 1 << 48

// contextCheckInterval is how many subsets are scanned between context
// polls.
const contextCheckInterval = 1 << 12

// Result is the outcome of one search call.
type Result struct {
	// Terms holds the chosen signed powers of two. It may contain zero when
	// the candidate set does.
	Terms []int64
	// Sum is the sum of Terms.
	Sum int64
	// Target is the value that was searched for.
	Target int64
	// Exact reports Sum == Target.
	Exact bool
	// Truncated is set by FindExact when the smallest exact subset was
	// longer than allowed and had to be cut down.
	Truncated bool
	// Evaluated is the number of subsets scanned.
	Evaluated uint64
}

// Residual returns |Target - Sum|.
func (r Result) Residual() int64 {
	return intmath.Abs(r.Target - r.Sum)
}

// Searcher runs subset-sum searches over a fixed candidate set.
type Searcher struct {
	set             *CandidateSet
	maxCombinations uint64
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithMaxCombinations caps the number of subsets a single call may scan.
// Non-positive values are ignored.
func WithMaxCombinations(n uint64) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.maxCombinations = n
		}
	}
}

// New returns a Searcher over set.
func New(set *CandidateSet, opts ...Option) *Searcher {
	s := &Searcher{set: set, maxCombinations: DefaultMaxCombinations}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// withinCap reports whether C(n, k) <= limit. The log comparison rejects
// huge counts before the exact count is formed.
func withinCap(n, k int, limit uint64) bool {
	if k == 0 || k == n {
		return limit >= 1
	}
	if combin.LogGeneralizedBinomial(float64(n), float64(k)) > math.Log(float64(limit))+1e-9 {
		return false
	}
	return uint64(combin.Binomial(n, k)) <= limit
}

// scan visits the k-subsets of the candidate indices in lexicographic
// order until visit returns false, polling ctx along the way. evaluated is
// incremented once per subset.
func (s *Searcher) scan(ctx context.Context, k int, evaluated *uint64, visit func(idx []int) bool) error {
	if k == 0 {
		*evaluated++
		visit(nil)
		return nil
	}
	idx := make([]int, k)
	gen := combin.NewCombinationGenerator(s.set.Len(), k)
	for gen.Next() {
		*evaluated++
		if *evaluated%contextCheckInterval == 0 {
			if err := checkContext(ctx); err != nil {
				return err
			}
		}
		if !visit(gen.Combination(idx)) {
			return nil
		}
	}
	return nil
}

// Set returns the candidate set.
func (s *Searcher) Set() *CandidateSet { return s.set }

// MaxCombinations returns the per-call enumeration cap.
func (s *Searcher) MaxCombinations() uint64 { return s.maxCombinations }

// FindNearest returns the k-term subset minimizing |sum - target|. Every
// subset is scanned; among equally good subsets the first in lexicographic
// index order wins. k == 0 yields the empty representation.
func (s *Searcher) FindNearest(ctx context.Context, target int64, k int) (Result, error) {
	n := s.set.Len()
	if k < 0 || k > n {
		return Result{}, fmt.Errorf("%w: %d terms from %d candidates", ErrInvalidTermCount, k, n)
	}
	if !withinCap(n, k, s.maxCombinations) {
		return Result{}, fmt.Errorf("%w: C(%d,%d) exceeds cap %d",
			ErrBudgetExceeded, n, k, s.maxCombinations)
	}
	if err := checkContext(ctx); err != nil {
		return Result{}, err
	}

	var (
		best      []int
		bestSum   int64
		bestErr   int64
		found     bool
		evaluated uint64
	)

	err := s.scan(ctx, k, &evaluated, func(idx []int) bool {
		sum := s.set.sum(idx)
		e := intmath.Abs(sum - target)
		if !found || e < bestErr {
			best = append(best[:0], idx...)
			bestSum = sum
			bestErr = e
			found = true
		}
		return true
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Terms:     s.set.pick(best),
		Sum:       bestSum,
		Target:    target,
		Exact:     bestErr == 0,
		Evaluated: evaluated,
	}, nil
}

// FindExact searches subset sizes 1, 2, … and returns the first subset whose
// sum equals target. A zero target is represented by the empty subset. When
// the match has more than maxTerms elements only its maxTerms
// largest-magnitude terms are kept, largest first, and the result is marked
// Truncated. If no subset of any size matches, it returns
// ErrNoRepresentation.
//
// The cap applies to the total number of subsets scanned across all sizes.
func (s *Searcher) FindExact(ctx context.Context, target int64, maxTerms int) (Result, error) {
	if maxTerms < 1 {
		return Result{}, fmt.Errorf("%w: maxTerms %d", ErrInvalidTermCount, maxTerms)
	}
	if err := checkContext(ctx); err != nil {
		return Result{}, err
	}

	if target == 0 {
		return Result{Exact: true}, nil
	}

	n := s.set.Len()
	var evaluated uint64

	for k := 1; k <= n; k++ {
		if !withinCap(n, k, s.maxCombinations-evaluated) {
			return Result{}, fmt.Errorf("%w: size %d needs more than %d further subsets, %d of %d used",
				ErrBudgetExceeded, k, s.maxCombinations-evaluated, evaluated, s.maxCombinations)
		}

		var (
			match []int
			found bool
		)
		err := s.scan(ctx, k, &evaluated, func(idx []int) bool {
			if s.set.sum(idx) != target {
				return true
			}
			match = slices.Clone(idx)
			found = true
			return false
		})
		if err != nil {
			return Result{}, err
		}
		if !found {
			continue
		}

		terms := s.set.pick(match)
		res := Result{Terms: terms, Sum: target, Target: target, Exact: true, Evaluated: evaluated}
		if len(terms) > maxTerms {
			res.Terms = largestTerms(terms, maxTerms)
			res.Sum = intmath.Sum(res.Terms)
			res.Exact = res.Sum == target
			res.Truncated = true
		}
		return res, nil
	}

	return Result{Target: target, Evaluated: evaluated}, fmt.Errorf("%w: %d", ErrNoRepresentation, target)
}

// largestTerms keeps the m largest-magnitude terms, largest first. Equal
// magnitudes keep their original order.
func largestTerms(terms []int64, m int) []int64 {
	sorted := slices.Clone(terms)
	slices.SortStableFunc(sorted, func(a, b int64) int {
		return int(intmath.Sign(intmath.Abs(b) - intmath.Abs(a)))
	})
	return sorted[:m]
}
