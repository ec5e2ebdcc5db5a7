package alloc

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-spt/dsp/spt/search"
	"github.com/cwbudde/algo-spt/internal/intmath"
)

// Allocate approximates every exact integer tap under cfg and returns the
// finished taps with aggregate totals. Invalid configuration and context
// cancellation return an error and no report; individual search failures
// are listed in Report.Failures.
func Allocate(ctx context.Context, exact []int64, cfg Config) (*Report, error) {
	if err := cfg.validate(len(exact)); err != nil {
		return nil, err
	}
	s, err := cfg.searcher()
	if err != nil {
		return nil, err
	}

	r := &runner{
		ctx:      ctx,
		cfg:      cfg,
		searcher: s,
		taps:     NewTaps(exact),
		blocked:  make([]bool, len(exact)),
		report: &Report{
			RunID:    uuid.New(),
			Strategy: cfg.Strategy,
			Budget:   cfg.Budget,
		},
	}
	r.log = cfg.logger().With("run", r.report.RunID.String(), "strategy", cfg.Strategy.String())
	r.log.Debug("allocation started", "taps", len(exact), "budget", cfg.Budget, "candidates", s.Set().Len())

	switch cfg.Strategy {
	case Uniform:
		err = r.uniform()
	case Greedy:
		err = r.greedy(cfg.Budget)
	case Hybrid:
		err = r.hybrid()
	case PerTap:
		err = r.perTap()
	}
	if err != nil {
		return nil, err
	}

	r.report.Taps = r.taps
	r.report.summarize()
	r.log.Debug("allocation finished",
		"cost", r.report.TotalCost,
		"calls", r.report.TotalCalls,
		"spent", r.report.Spent,
		"failures", len(r.report.Failures))
	return r.report, nil
}

type runner struct {
	ctx      context.Context
	cfg      Config
	searcher *search.Searcher
	taps     []*Tap
	// blocked marks taps that cannot take another term.
	blocked []bool
	report  *Report
	log     *slog.Logger
}

// assign grants tap i exactly k terms. It returns false when the search
// failed locally; the error is non-nil only when the run must stop.
func (r *runner) assign(i, k int) (bool, error) {
	err := r.taps[i].Assign(r.ctx, r.searcher, k)
	if err == nil {
		return true, nil
	}
	return false, r.fail(i, k, err)
}

// fail records a local failure, or returns err if the context is done.
func (r *runner) fail(i, k int, err error) error {
	if r.ctx.Err() != nil {
		return err
	}
	r.report.Failures = append(r.report.Failures, Failure{Index: i, Terms: k, Err: err})
	r.log.Debug("tap not improved", "tap", r.taps[i].Name, "terms", k, "err", err)
	return nil
}

// termLimit is the largest budget a single tap may reach.
func (r *runner) termLimit() int {
	limit := r.searcher.Set().Len()
	if r.cfg.MaxTerms > 0 {
		limit = min(limit, r.cfg.MaxTerms)
	}
	return limit
}

func (r *runner) totalCost() int64 {
	var total int64
	for _, t := range r.taps {
		total += t.Cost()
	}
	return total
}

// worst returns the index of the highest-cost tap that is not blocked, the
// lowest index on ties, or -1.
func (r *runner) worst() int {
	best := -1
	for i, t := range r.taps {
		if r.blocked[i] {
			continue
		}
		if best < 0 || t.Cost() > r.taps[best].Cost() {
			best = i
		}
	}
	return best
}

// costliest returns the index of the highest-cost tap, blocked or not,
// the lowest index on ties, or -1 when there are no taps.
func (r *runner) costliest() int {
	best := -1
	for i, t := range r.taps {
		if best < 0 || t.Cost() > r.taps[best].Cost() {
			best = i
		}
	}
	return best
}

// largest returns the indices of the b largest-magnitude exact taps, lower
// index first on ties.
func (r *runner) largest(b int) []int {
	idx := make([]int, len(r.taps))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(x, y int) int {
		return cmp.Compare(intmath.Abs(r.taps[y].Exact), intmath.Abs(r.taps[x].Exact))
	})
	return idx[:b]
}

func (r *runner) perTap() error {
	for i, t := range r.taps {
		if err := t.AssignExact(r.ctx, r.searcher, r.cfg.MaxTerms); err != nil {
			if err := r.fail(i, r.cfg.MaxTerms, err); err != nil {
				return err
			}
		}
	}
	r.report.Budget = r.cfg.MaxTerms * len(r.taps)
	return nil
}
