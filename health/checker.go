package health

import (
	"context"
	"time"
)

// Status is the health of one component. Larger values are worse.
type Status int

const (
	StatusHealthy Status = iota
	// StatusDegraded still serves requests: the circuit is probing, the
	// remote is slow or the cache is filling up.
	StatusDegraded
	StatusUnhealthy
)

var statusNames = [...]string{"healthy", "degraded", "unhealthy"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Worse returns the worse of s and other.
func (s Status) Worse(other Status) Status {
	return max(s, other)
}

// Result is the outcome of one check.
type Result struct {
	Status  Status
	Message string
	Error   error

	// Details carries check-specific values such as latency_ms or trips.
	Details map[string]any

	Duration  time.Duration
	Timestamp time.Time
}

func newResult(s Status, message string, err error) Result {
	return Result{Status: s, Message: message, Error: err, Timestamp: time.Now()}
}

func Healthy(message string) Result { return newResult(StatusHealthy, message, nil) }

func Degraded(message string) Result { return newResult(StatusDegraded, message, nil) }

func Unhealthy(message string, err error) Result { return newResult(StatusUnhealthy, message, err) }

// WithDetails replaces the details of r.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithDuration records how long the check took.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// Checker probes one component.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to a Checker.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

func (f *CheckerFunc) Name() string { return f.name }

func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }

// Pinger is implemented by components that can be probed with a cheap call,
// such as *pco.Client and *cache.RedisCache.
type Pinger interface {
	Ping(ctx context.Context) error
}
