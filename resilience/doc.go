// Package resilience guards outbound remote API traffic.
//
// Two patterns are provided, and both fail fast:
//
//   - RateLimiter: a token bucket that keeps the client under the remote
//     API's request budget.
//
//   - CircuitBreaker: stops sending requests to an API that keeps failing
//     until a reset timeout has passed.
//
// Nothing in this package re-issues an operation. Each call to Execute runs
// the operation at most once or rejects it without running it, so write
// requests keep at-most-once delivery.
//
//	exec := resilience.NewExecutor(
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	        Rate:  20,
//	        Burst: 20,
//	    })),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    })),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return client.Do(ctx, http.MethodGet, "/services/v2", nil, nil, nil)
//	})
package resilience
