// Package search finds small sets of signed powers of two whose sum matches
// an integer target.
//
// A [CandidateSet] holds the terms {+2^0 … +2^n, 0, -2^0 … -2^n} in that
// order; the zero element can be left out with [WithoutZero]. A [Searcher]
// enumerates k-subsets of the candidate indices in lexicographic order:
//
//   - [Searcher.FindExact] returns the first subset of the smallest size
//     whose sum equals the target, truncated to the requested number of
//     terms if it is larger.
//   - [Searcher.FindNearest] scans every subset of exactly k terms and
//     returns the first one with minimal |sum - target|.
//
// Both searches are exhaustive and combinatorial in the candidate count.
// Every call is bounded by a combination cap ([WithMaxCombinations]) that is
// checked before enumeration starts, and by the caller's context; either
// limit surfaces as [ErrBudgetExceeded].
//
// A Searcher holds no mutable state and is safe for concurrent use.
package search
