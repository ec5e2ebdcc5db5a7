package alloc

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-spt/dsp/spt/search"
	"github.com/cwbudde/algo-spt/internal/intmath"
)

// Tap is the mutable approximation state of one coefficient. A Tap is owned
// by a single allocation run.
type Tap struct {
	Index int
	Name  string
	// Exact is the integer coefficient being approximated.
	Exact int64
	// Budget is the number of terms currently allotted.
	Budget int
	// Terms is the current representation; len(Terms) == Budget once the
	// tap has been assigned.
	Terms []int64
	// Calls counts successful representation (re)computations.
	Calls int
	// Evaluated counts subsets scanned by every search on this tap.
	Evaluated uint64

	assigned bool
}

// NewTap returns an unassigned tap.
func NewTap(index int, exact int64) *Tap {
	return &Tap{
		Index: index,
		Name:  fmt.Sprintf("coeff_%d", index),
		Exact: exact,
	}
}

// NewTaps returns one unassigned tap per coefficient.
func NewTaps(exact []int64) []*Tap {
	taps := make([]*Tap, len(exact))
	for i, v := range exact {
		taps[i] = NewTap(i, v)
	}
	return taps
}

// Assigned reports whether the tap holds a nonempty representation.
func (t *Tap) Assigned() bool { return t.assigned }

// Approx returns the sum of the current terms (0 when unassigned).
func (t *Tap) Approx() int64 { return intmath.Sum(t.Terms) }

// Cost returns |Exact - Approx|, derived from Terms on every call.
func (t *Tap) Cost() int64 { return intmath.Abs(t.Exact - t.Approx()) }

// MinTerm returns the smallest term magnitude. ok is false when the tap has
// no terms.
func (t *Tap) MinTerm() (m int64, ok bool) {
	for i, v := range t.Terms {
		if a := intmath.Abs(v); i == 0 || a < m {
			m = a
		}
	}
	return m, len(t.Terms) > 0
}

// Assign recomputes the representation with exactly termCount terms. A
// failed search leaves the representation unchanged.
func (t *Tap) Assign(ctx context.Context, s *search.Searcher, termCount int) error {
	res, err := s.FindNearest(ctx, t.Exact, termCount)
	t.Evaluated += res.Evaluated
	if err != nil {
		return fmt.Errorf("%s: %d terms: %w", t.Name, termCount, err)
	}
	t.set(res.Terms)
	return nil
}

// AssignExact uses the smallest exact representation, truncated to at most
// maxTerms, and falls back to the nearest maxTerms-term sum when no exact
// representation exists. A zero tap gets no terms.
func (t *Tap) AssignExact(ctx context.Context, s *search.Searcher, maxTerms int) error {
	res, err := s.FindExact(ctx, t.Exact, maxTerms)
	t.Evaluated += res.Evaluated
	if errors.Is(err, search.ErrNoRepresentation) {
		res, err = s.FindNearest(ctx, t.Exact, maxTerms)
		t.Evaluated += res.Evaluated
	}
	if err != nil {
		return fmt.Errorf("%s: exact %d terms: %w", t.Name, maxTerms, err)
	}
	t.set(res.Terms)
	return nil
}

func (t *Tap) set(terms []int64) {
	t.Terms = terms
	t.Budget = len(terms)
	t.assigned = len(terms) > 0
	t.Calls++
}

// Clone returns an independent copy.
func (t *Tap) Clone() *Tap {
	c := *t
	c.Terms = slices.Clone(t.Terms)
	return &c
}

func (t *Tap) String() string {
	return fmt.Sprintf("%s budget=%d approx=%d terms=%v cost=%d", t.Name, t.Budget, t.Approx(), t.Terms, t.Cost())
}
