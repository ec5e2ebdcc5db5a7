package alloc

import (
	"cmp"
	"math"
	"slices"
)

// tieEps absorbs rounding noise when comparing log-magnitude distances.
const tieEps = 1e-9

// BoundaryFromMagnitudes picks the hybrid boundary size from the
// distribution of log2|x| over the nonzero taps. With the log-magnitudes
// sorted in descending order, it takes the index closest to their median
// among those within tol standard deviations of it (the larger index on
// ties) and returns index+1. It returns len(exact) when no tap is nonzero.
func BoundaryFromMagnitudes(exact []int64, tol float64) int {
	logs := make([]float64, 0, len(exact))
	for _, v := range exact {
		if v != 0 {
			logs = append(logs, math.Log2(math.Abs(float64(v))))
		}
	}
	if len(logs) == 0 {
		return len(exact)
	}
	slices.SortFunc(logs, func(a, b float64) int { return cmp.Compare(b, a) })

	m := median(logs)
	limit := tol*stddev(logs) + tieEps

	best, bestDist := -1, 0.0
	for i, v := range logs {
		d := math.Abs(v - m)
		if d > limit {
			continue
		}
		if best < 0 || d <= bestDist+tieEps {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return len(exact)
	}
	return best + 1
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stddev is the population standard deviation.
func stddev(x []float64) float64 {
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	ss := 0.0
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(x)))
}

func (r *runner) hybrid() error {
	b := r.cfg.Boundary
	if b == 0 {
		exact := make([]int64, len(r.taps))
		for i, t := range r.taps {
			exact[i] = t.Exact
		}
		b = BoundaryFromMagnitudes(exact, r.cfg.tolerance())
	}
	r.report.Boundary = b

	if q := min(r.cfg.Budget/b, r.termLimit()); q > 0 {
		if err := r.basePass(r.largest(b), q); err != nil {
			return err
		}
	}

	spent := 0
	for _, t := range r.taps {
		spent += t.Budget
	}
	if err := r.greedy(r.cfg.Budget - spent); err != nil {
		return err
	}

	r.report.InitialCost = r.totalCost()
	r.log.Debug("initial allocation", "boundary", b, "cost", r.report.InitialCost)
	return r.exchange(r.cfg.Budget)
}

// weakest returns the index of the tap whose smallest term has the lowest
// magnitude among taps with a nonzero budget, lowest index on ties, or -1.
func (r *runner) weakest() int {
	best := -1
	var bestTerm int64
	for i, t := range r.taps {
		if t.Budget == 0 {
			continue
		}
		m, ok := t.MinTerm()
		if !ok {
			continue
		}
		if best < 0 || m < bestTerm {
			best, bestTerm = i, m
		}
	}
	return best
}

// exchange moves single terms from the weakest-term tap to the highest-cost
// tap while doing so strictly lowers the total cost. The destination is
// chosen over all taps; when it is blocked or already at the term limit the
// move is invalid and the loop stops, as it does at the first non-improving
// move or after maxIter moves.
func (r *runner) exchange(maxIter int) error {
	total := r.totalCost()
	limit := r.termLimit()

	for range maxIter {
		src, dst := r.weakest(), r.costliest()
		if src < 0 || dst < 0 || src == dst || r.blocked[dst] {
			return nil
		}
		s, d := r.taps[src], r.taps[dst]
		if s.Budget == 0 || s.Cost() >= d.Cost() || d.Budget >= limit {
			return nil
		}

		sc, dc := s.Clone(), d.Clone()
		if err := sc.Assign(r.ctx, r.searcher, s.Budget-1); err != nil {
			return r.fail(src, s.Budget-1, err)
		}
		if err := dc.Assign(r.ctx, r.searcher, d.Budget+1); err != nil {
			r.report.ProbeCalls++
			r.blocked[dst] = true
			return r.fail(dst, d.Budget+1, err)
		}

		simulated := total - s.Cost() - d.Cost() + sc.Cost() + dc.Cost()
		if simulated >= total {
			r.report.ProbeCalls += 2
			r.log.Debug("exchange rejected", "from", s.Name, "to", d.Name, "cost", total, "simulated", simulated)
			return nil
		}

		r.taps[src], r.taps[dst] = sc, dc
		r.blocked[src] = false
		total = simulated
		r.report.Exchanges++
		r.log.Debug("exchange accepted", "from", s.Name, "to", d.Name, "cost", total)
	}
	return nil
}
