package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cwbudde/algo-spt/internal/intmath"
	"github.com/cwbudde/algo-spt/internal/testutil"
)

func mustSearcher(t *testing.T, numBits int, opts []CandidateOption, sopts ...Option) *Searcher {
	t.Helper()
	set, err := NewCandidateSet(numBits, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return New(set, sopts...)
}

func TestFindNearestMatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	for _, opts := range [][]CandidateOption{nil, {WithoutZero()}} {
		s := mustSearcher(t, 3, opts)
		values := s.Set().Values()

		for target := int64(-20); target <= 20; target++ {
			for k := 0; k <= 4; k++ {
				res, err := s.FindNearest(ctx, target, k)
				if err != nil {
					t.Fatalf("target=%d k=%d: %v", target, k, err)
				}
				if len(res.Terms) != k {
					t.Fatalf("target=%d k=%d: %d terms", target, k, len(res.Terms))
				}
				if res.Sum != intmath.Sum(res.Terms) {
					t.Fatalf("target=%d k=%d: Sum %d != sum(%v)", target, k, res.Sum, res.Terms)
				}
				want := testutil.BruteForceNearestError(values, target, k)
				if res.Residual() != want {
					t.Fatalf("target=%d k=%d: residual %d, brute force %d (terms %v)",
						target, k, res.Residual(), want, res.Terms)
				}
			}
		}
	}
}

func TestFindNearestTieBreak(t *testing.T) {
	s := mustSearcher(t, 2, nil)

	// 2 and 4 are both one away from 3; 2 comes first.
	res, err := s.FindNearest(context.Background(), 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireIntsEqual(t, res.Terms, []int64{2})
	if res.Exact || res.Residual() != 1 {
		t.Fatalf("Exact=%v Residual=%d", res.Exact, res.Residual())
	}
}

func TestFindNearestScansEverySubset(t *testing.T) {
	s := mustSearcher(t, 6, nil)
	res, err := s.FindNearest(context.Background(), 51, 2)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireIntsEqual(t, res.Terms, []int64{16, 32})
	if res.Evaluated != 105 {
		t.Fatalf("Evaluated = %d, want C(15,2)=105", res.Evaluated)
	}
}

func TestFindNearestZeroTerms(t *testing.T) {
	s := mustSearcher(t, 3, nil)
	res, err := s.FindNearest(context.Background(), -5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Terms) != 0 || res.Sum != 0 || res.Residual() != 5 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFindNearestIdempotent(t *testing.T) {
	s := mustSearcher(t, 5, nil)
	a, _ := s.FindNearest(context.Background(), 27, 3)
	b, _ := s.FindNearest(context.Background(), 27, 3)
	testutil.RequireIntsEqual(t, a.Terms, b.Terms)
}

func TestFindNearestInvalidTermCount(t *testing.T) {
	s := mustSearcher(t, 2, nil)
	for _, k := range []int{-1, s.Set().Len() + 1} {
		if _, err := s.FindNearest(context.Background(), 3, k); !errors.Is(err, ErrInvalidTermCount) {
			t.Errorf("k=%d: err = %v, want ErrInvalidTermCount", k, err)
		}
	}
}

func TestFindExactSumsToTarget(t *testing.T) {
	ctx := context.Background()
	s := mustSearcher(t, 4, nil)
	values := s.Set().Values()

	for target := int64(-31); target <= 31; target++ {
		res, err := s.FindExact(ctx, target, s.Set().Len())
		if err != nil {
			t.Fatalf("target=%d: %v", target, err)
		}
		if !res.Exact || res.Truncated {
			t.Fatalf("target=%d: Exact=%v Truncated=%v", target, res.Exact, res.Truncated)
		}
		if got := intmath.Sum(res.Terms); got != target {
			t.Fatalf("target=%d: terms %v sum to %d", target, res.Terms, got)
		}
		// No smaller subset matches exactly.
		for k := 1; k < len(res.Terms); k++ {
			if testutil.BruteForceNearestError(values, target, k) == 0 {
				t.Fatalf("target=%d: %d-term match exists but %d terms returned", target, k, len(res.Terms))
			}
		}
	}
}

func TestFindExactFirstMatch(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		numBits   int
		opts      []CandidateOption
		target    int64
		maxTerms  int
		want      []int64
		truncated bool
	}{
		{name: "csd of 51", numBits: 6, target: 51, maxTerms: 4, want: []int64{1, 2, 16, 32}},
		{name: "truncate keeps largest", numBits: 6, target: 51, maxTerms: 2, want: []int64{32, 16}, truncated: true},
		{name: "truncate without zero", numBits: 2, opts: []CandidateOption{WithoutZero()}, target: 7, maxTerms: 2, want: []int64{4, 2}, truncated: true},
		{name: "zero with zero candidate", numBits: 2, target: 0, maxTerms: 3, want: []int64{0}},
		{name: "zero without zero candidate", numBits: 2, opts: []CandidateOption{WithoutZero()}, target: 0, maxTerms: 3, want: []int64{1, -1}},
		{name: "single power", numBits: 4, target: -8, maxTerms: 1, want: []int64{-8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSearcher(t, tt.numBits, tt.opts)
			res, err := s.FindExact(ctx, tt.target, tt.maxTerms)
			if err != nil {
				t.Fatal(err)
			}
			testutil.RequireIntsEqual(t, res.Terms, tt.want)
			if res.Truncated != tt.truncated {
				t.Fatalf("Truncated = %v, want %v", res.Truncated, tt.truncated)
			}
			if res.Exact == tt.truncated {
				t.Fatalf("Exact = %v with Truncated = %v", res.Exact, tt.truncated)
			}
		})
	}
}

func TestFindExactNoRepresentation(t *testing.T) {
	s := mustSearcher(t, 1, []CandidateOption{WithoutZero()})
	res, err := s.FindExact(context.Background(), 10, 2)
	if !errors.Is(err, ErrNoRepresentation) {
		t.Fatalf("err = %v, want ErrNoRepresentation", err)
	}
	// Every subset of {1, 2, -1, -2} was tried.
	if res.Evaluated != 15 {
		t.Fatalf("Evaluated = %d, want 15", res.Evaluated)
	}
}

func TestFindExactInvalidTermCount(t *testing.T) {
	s := mustSearcher(t, 2, nil)
	if _, err := s.FindExact(context.Background(), 3, 0); !errors.Is(err, ErrInvalidTermCount) {
		t.Fatalf("err = %v, want ErrInvalidTermCount", err)
	}
}

func TestCombinationCap(t *testing.T) {
	ctx := context.Background()
	s := mustSearcher(t, 3, nil, WithMaxCombinations(10))

	if _, err := s.FindNearest(ctx, 5, 2); !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("FindNearest err = %v, want ErrBudgetExceeded", err)
	}
	// Single terms fit in the cap.
	if _, err := s.FindNearest(ctx, 5, 1); err != nil {
		t.Fatalf("FindNearest k=1: %v", err)
	}

	// 3 needs two terms; size 1 uses 9 of 10 and size 2 needs 36 more.
	if _, err := s.FindExact(ctx, 3, 2); !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("FindExact err = %v, want ErrBudgetExceeded", err)
	}
	if _, err := s.FindExact(ctx, 4, 2); err != nil {
		t.Fatalf("FindExact single term: %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	s := mustSearcher(t, 3, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindNearest(ctx, 5, 2)
	if !errors.Is(err, ErrBudgetExceeded) || !errors.Is(err, context.Canceled) {
		t.Fatalf("FindNearest err = %v", err)
	}
	_, err = s.FindExact(ctx, 5, 2)
	if !errors.Is(err, ErrBudgetExceeded) || !errors.Is(err, context.Canceled) {
		t.Fatalf("FindExact err = %v", err)
	}
}

func TestSearcherConcurrentUse(t *testing.T) {
	s := mustSearcher(t, 6, nil)
	targets := []int64{51, 24, 11, 39, 1, 27, 17, 61, 49, 18}

	want := make([][]int64, len(targets))
	for i, target := range targets {
		res, err := s.FindNearest(context.Background(), target, 2)
		if err != nil {
			t.Fatal(err)
		}
		want[i] = res.Terms
	}

	got := make([][]int64, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.FindNearest(context.Background(), target, 2)
			if err == nil {
				got[i] = res.Terms
			}
		}()
	}
	wg.Wait()

	for i := range targets {
		testutil.RequireIntsEqual(t, got[i], want[i])
	}
}

func BenchmarkFindNearest(b *testing.B) {
	set, _ := NewCandidateSet(8)
	s := New(set)
	ctx := context.Background()
	for b.Loop() {
		_, _ = s.FindNearest(ctx, 173, 3)
	}
}

func TestFindExactZeroTarget(t *testing.T) {
	for _, opts := range [][]CandidateOption{nil, {WithoutZero()}} {
		s := mustSearcher(t, 3, opts)
		res, err := s.FindExact(context.Background(), 0, 2)
		if err != nil {
			t.Fatalf("FindExact(0): %v", err)
		}
		if len(res.Terms) != 0 || res.Sum != 0 || !res.Exact || res.Truncated {
			t.Fatalf("FindExact(0) = %+v, want empty exact result", res)
		}
	}
}

func TestCombinationCapBoundary(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		cap uint64
		ok  bool
	}{
		{104, false},
		{105, true},
		{106, true},
	}
	for _, tt := range tests {
		// 15 candidates, C(15,2) = 105 pairs.
		s := mustSearcher(t, 6, nil, WithMaxCombinations(tt.cap))
		_, err := s.FindNearest(ctx, 51, 2)
		if tt.ok && err != nil {
			t.Fatalf("cap %d: %v", tt.cap, err)
		}
		if !tt.ok && !errors.Is(err, ErrBudgetExceeded) {
			t.Fatalf("cap %d: err = %v, want ErrBudgetExceeded", tt.cap, err)
		}
	}
}

func TestFindExactCumulativeCap(t *testing.T) {
	// 51 = 32+16+2+1 needs four terms: 15 + 105 + 455 subsets are scanned
	// before size four, whose 1365 subsets no longer fit under 1000.
	s := mustSearcher(t, 6, nil, WithMaxCombinations(1000))
	if _, err := s.FindExact(context.Background(), 51, 4); !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}
	s = mustSearcher(t, 6, nil, WithMaxCombinations(1<<20))
	res, err := s.FindExact(context.Background(), 51, 4)
	if err != nil {
		t.Fatal(err)
	}
	if res.Sum != 51 || len(res.Terms) != 4 {
		t.Fatalf("FindExact(51) = %+v", res)
	}
}

func TestMaxCombinationsLimit(t *testing.T) {
	s := mustSearcher(t, 2, nil, WithMaxCombinations(1<<62))
	if got := s.MaxCombinations(); got != maxCombinationsLimit {
		t.Fatalf("MaxCombinations = %d, want %d", got, uint64(maxCombinationsLimit))
	}
}
