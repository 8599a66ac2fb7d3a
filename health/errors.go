package health

import "errors"

var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a health check timed out.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrCircuitOpen is reported while the remote API circuit is open.
	ErrCircuitOpen = errors.New("health: circuit open")

	// ErrProbeMismatch indicates a cache probe read back a different value.
	ErrProbeMismatch = errors.New("health: cache probe mismatch")
)
