package alloc

import (
	"github.com/google/uuid"
)

// Failure records a search that could not improve a tap.
type Failure struct {
	Index int
	Terms int
	Err   error
}

// Report is the outcome of one allocation run.
type Report struct {
	RunID    uuid.UUID
	Strategy Strategy
	Taps     []*Tap

	// Budget is the requested budget; Spent is the sum of tap budgets.
	Budget int
	Spent  int
	// Boundary is the size of the uniform base subset (0 for Greedy and
	// PerTap).
	Boundary int

	// InitialCost is the Hybrid total cost before the exchange loop.
	InitialCost int64
	Exchanges   int
	// ProbeCalls counts exchange simulations that were not committed.
	ProbeCalls int

	TotalCost  int64
	TotalCalls int
	Evaluated  uint64

	Failures []Failure
}

// Approximations returns the approximate value of every tap.
func (r *Report) Approximations() []int64 {
	out := make([]int64, len(r.Taps))
	for i, t := range r.Taps {
		out[i] = t.Approx()
	}
	return out
}

// TermCounts returns the term budget of every tap.
func (r *Report) TermCounts() []int {
	out := make([]int, len(r.Taps))
	for i, t := range r.Taps {
		out[i] = t.Budget
	}
	return out
}

func (r *Report) summarize() {
	r.Spent, r.TotalCost, r.TotalCalls, r.Evaluated = 0, 0, 0, 0
	for _, t := range r.Taps {
		r.Spent += t.Budget
		r.TotalCost += t.Cost()
		r.TotalCalls += t.Calls
		r.Evaluated += t.Evaluated
	}
}
