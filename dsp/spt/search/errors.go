package search

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoRepresentation means no subset of the candidate set sums to the
	// target. Callers should fall back to FindNearest.
	ErrNoRepresentation = errors.New("search: no exact representation")
	// ErrBudgetExceeded means the enumeration cap or the context stopped
	// the search.
	ErrBudgetExceeded   = errors.New("search: budget exceeded")
	ErrInvalidTermCount = errors.New("search: invalid term count")
	ErrInvalidNumBits   = errors.New("search: invalid number of bits")
)

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrBudgetExceeded, err)
	}
	return nil
}
