package alloc

import "errors"

var (
	ErrNoTaps           = errors.New("alloc: no taps")
	ErrInvalidBudget    = errors.New("alloc: budget must be > 0")
	ErrInvalidMaxTerms  = errors.New("alloc: max terms must be >= 0")
	ErrInvalidBoundary  = errors.New("alloc: boundary out of range")
	ErrUnknownStrategy  = errors.New("alloc: unknown strategy")
	ErrInvalidTolerance = errors.New("alloc: boundary tolerance must be >= 0")
)
