package query

import "errors"

var (
	// ErrNotStarted is returned by Refetch on a query that is not started.
	ErrNotStarted = errors.New("query: not started")

	// ErrPanic wraps a panic recovered from a fetch or mutation function.
	ErrPanic = errors.New("query: function panicked")
)
