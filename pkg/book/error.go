package book

import "errors"

var (
	// ErrInvalidReduction reports a reduce to a size above the
	// current remaining size.
	ErrInvalidReduction = errors.New("reduction exceeds remaining size")

	// ErrDuplicateOrderID reports a pool take against an id that is
	// already live, under the reject policy.
	ErrDuplicateOrderID = errors.New("order id already checked out")
)
