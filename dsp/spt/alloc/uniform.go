package alloc

import (
	"cmp"
	"slices"

	"golang.org/x/sync/errgroup"
)

func (r *runner) uniform() error {
	b := r.cfg.Boundary
	if b == 0 {
		b = len(r.taps)
	}
	r.report.Boundary = b
	idx := r.largest(b)

	q, rem := r.cfg.Budget/b, r.cfg.Budget%b
	if limit := r.termLimit(); q >= limit {
		// q+1 would exceed the per-tap cap, so the remainder stays unspent.
		q, rem = limit, 0
	}

	if q > 0 {
		if err := r.basePass(idx, q); err != nil {
			return err
		}
	}
	if rem > 0 {
		return r.remainderPass(idx, q, rem)
	}
	return nil
}

// basePass assigns q terms to every tap in idx. With Workers > 1 the taps
// are searched concurrently; each goroutine owns exactly one tap.
func (r *runner) basePass(idx []int, q int) error {
	if r.cfg.Workers <= 1 || len(idx) < 2 {
		for _, i := range idx {
			if _, err := r.assign(i, q); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, len(idx))
	g, gctx := errgroup.WithContext(r.ctx)
	g.SetLimit(r.cfg.Workers)
	for j, i := range idx {
		g.Go(func() error {
			err := r.taps[i].Assign(gctx, r.searcher, q)
			if err != nil && r.ctx.Err() != nil {
				return err
			}
			errs[j] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Failures are recorded in tap order so reports stay reproducible.
	for j, err := range errs {
		if err == nil {
			continue
		}
		if err := r.fail(idx[j], q, err); err != nil {
			return err
		}
	}
	return nil
}

// remainderPass grants q+1 terms to the rem taps of idx with the highest
// current cost, lower index first on ties.
func (r *runner) remainderPass(idx []int, q, rem int) error {
	ranked := slices.Clone(idx)
	slices.SortFunc(ranked, func(x, y int) int {
		if c := cmp.Compare(r.taps[y].Cost(), r.taps[x].Cost()); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})

	for _, i := range ranked[:rem] {
		if _, err := r.assign(i, q+1); err != nil {
			return err
		}
	}
	return nil
}
