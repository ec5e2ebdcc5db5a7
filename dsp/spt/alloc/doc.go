// Package alloc distributes a global budget of signed-power-of-two terms
// across the integer taps of a filter.
//
// Each tap is tracked by a [Tap], which records its term budget, chosen
// terms and cost |exact - approx|. [Allocate] drives one of four
// strategies over a tap vector:
//
//   - [Uniform]: floor(B/b) terms for each of the b largest taps, then one
//     extra term for the B mod b taps with the highest remaining cost.
//   - [Greedy]: B single-term steps, each granted to the tap with the
//     highest current cost.
//   - [Hybrid]: a uniform base pass over a boundary subset chosen from the
//     log-magnitude distribution, a greedy pass for the leftover, then a
//     hill-climbing exchange that moves single terms from the tap holding
//     the least useful term to the tap with the highest cost.
//   - [PerTap]: every tap independently gets its smallest exact
//     representation, truncated to MaxTerms.
//
// Per-tap search failures are recorded in the [Report] and do not stop the
// run. Validation errors and context cancellation abort it.
package alloc
