package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/pcokit/cache"
	"github.com/jonwraymond/pcokit/pco"
	"github.com/jonwraymond/pcokit/resilience"
)

// RemoteAPIChecker pings the Planning Center API.
type RemoteAPIChecker struct {
	api  Pinger
	slow time.Duration
}

// NewRemoteAPIChecker creates a checker that is degraded when a ping takes
// longer than slow. A non-positive slow disables the latency budget.
func NewRemoteAPIChecker(api Pinger, slow time.Duration) *RemoteAPIChecker {
	return &RemoteAPIChecker{api: api, slow: slow}
}

// Name returns "pco".
func (c *RemoteAPIChecker) Name() string {
	return "pco"
}

// Check pings the API once.
func (c *RemoteAPIChecker) Check(ctx context.Context) Result {
	start := time.Now()
	err := c.api.Ping(ctx)
	elapsed := time.Since(start)
	details := map[string]any{"latency_ms": elapsed.Milliseconds()}

	if err != nil {
		var apiErr *pco.APIError
		if errors.As(err, &apiErr) {
			details["status_code"] = apiErr.StatusCode
			details["request_id"] = apiErr.RequestID
		}
		if resilience.IsRejected(err) {
			details["rejected"] = true
		}
		return Unhealthy("remote API unreachable", err).WithDetails(details).WithDuration(elapsed)
	}
	if c.slow > 0 && elapsed > c.slow {
		return Degraded(fmt.Sprintf("remote API slow: %s", elapsed.Round(time.Millisecond))).
			WithDetails(details).WithDuration(elapsed)
	}
	return Healthy("remote API reachable").WithDetails(details).WithDuration(elapsed)
}

// CircuitChecker reports the state of the remote API circuit breaker.
type CircuitChecker struct {
	cb *resilience.CircuitBreaker
}

// NewCircuitChecker creates a CircuitChecker.
func NewCircuitChecker(cb *resilience.CircuitBreaker) *CircuitChecker {
	return &CircuitChecker{cb: cb}
}

// Name returns "circuit".
func (c *CircuitChecker) Name() string {
	return "circuit"
}

// Check is healthy while closed, degraded while half-open and unhealthy
// while open.
func (c *CircuitChecker) Check(_ context.Context) Result {
	m := c.cb.Metrics()
	details := map[string]any{
		"state":    m.State.String(),
		"failures": m.Failures,
		"trips":    m.Trips,
	}
	if !m.OpenedAt.IsZero() {
		details["opened_at"] = m.OpenedAt.UTC().Format(time.RFC3339)
	}

	switch m.State {
	case resilience.StateOpen:
		return Unhealthy("circuit open", ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}

// CacheChecker writes, reads back and deletes a probe entry. Stores that
// implement Pinger are pinged first.
type CacheChecker struct {
	store cache.Cache
}

// NewCacheChecker creates a CacheChecker.
func NewCacheChecker(store cache.Cache) *CacheChecker {
	return &CacheChecker{store: store}
}

// Name returns "cache".
func (c *CacheChecker) Name() string {
	return "cache"
}

// Check performs one probe round trip.
func (c *CacheChecker) Check(ctx context.Context) Result {
	if p, ok := c.store.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return Unhealthy("cache unreachable", err)
		}
	}

	id := uuid.NewString()
	key := cache.BuildKey("health", id)
	if err := c.store.Set(ctx, key, []byte(id), time.Minute); err != nil {
		return Unhealthy("cache write failed", err)
	}
	defer func() { _ = c.store.Delete(context.WithoutCancel(ctx), key) }()

	got, ok := c.store.Get(ctx, key)
	if !ok || string(got) != id {
		return Unhealthy("cache read-back failed", ErrProbeMismatch)
	}
	return Healthy("cache round trip ok")
}
