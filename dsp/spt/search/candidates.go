package search

import (
	"fmt"
	"slices"
)

// MaxNumBits is the largest exponent a candidate set may contain.
const MaxNumBits = 61

// CandidateSet is the ordered list of signed powers of two a search draws
// from. It is immutable once built.
type CandidateSet struct {
	values  []int64
	numBits int
	zero    bool
}

type candidateConfig struct {
	zero bool
}

// CandidateOption configures a CandidateSet.
type CandidateOption func(*candidateConfig)

// WithoutZero leaves the zero element out of the set. Without zero, a
// k-term subset always uses k nonzero terms.
func WithoutZero() CandidateOption {
	return func(cfg *candidateConfig) {
		cfg.zero = false
	}
}

// NewCandidateSet builds {+2^0 … +2^numBits, 0, -2^0 … -2^numBits}.
func NewCandidateSet(numBits int, opts ...CandidateOption) (*CandidateSet, error) {
	if numBits < 0 || numBits > MaxNumBits {
		return nil, fmt.Errorf("%w: %d not in [0,%d]", ErrInvalidNumBits, numBits, MaxNumBits)
	}

	cfg := candidateConfig{zero: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	values := make([]int64, 0, 2*(numBits+1)+1)
	for i := 0; i <= numBits; i++ {
		values = append(values, int64(1)<<i)
	}
	if cfg.zero {
		values = append(values, 0)
	}
	for i := 0; i <= numBits; i++ {
		values = append(values, -(int64(1) << i))
	}

	return &CandidateSet{values: values, numBits: numBits, zero: cfg.zero}, nil
}

// Len returns the number of candidates.
func (c *CandidateSet) Len() int { return len(c.values) }

// NumBits returns the largest exponent in the set.
func (c *CandidateSet) NumBits() int { return c.numBits }

// HasZero reports whether zero is a candidate.
func (c *CandidateSet) HasZero() bool { return c.zero }

// At returns candidate i.
func (c *CandidateSet) At(i int) int64 { return c.values[i] }

// Values returns a copy of the candidates in enumeration order.
func (c *CandidateSet) Values() []int64 { return slices.Clone(c.values) }

func (c *CandidateSet) sum(idx []int) int64 {
	var s int64
	for _, i := range idx {
		s += c.values[i]
	}
	return s
}

func (c *CandidateSet) pick(idx []int) []int64 {
	terms := make([]int64, len(idx))
	for j, i := range idx {
		terms[j] = c.values[i]
	}
	return terms
}
