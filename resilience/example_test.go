package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/pcokit/resilience"
)

func ExampleExecutor() {
	exec := resilience.NewExecutor(
		resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 1, Burst: 1})),
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:  3,
			ResetTimeout: 30 * time.Second,
		})),
	)

	ctx := context.Background()
	call := func(context.Context) error { return nil }

	fmt.Println(exec.Execute(ctx, call))
	err := exec.Execute(ctx, call)
	fmt.Println(errors.Is(err, resilience.ErrRateLimitExceeded))
	// Output:
	// <nil>
	// true
}

func ExampleCircuitBreaker() {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{MaxFailures: 2})
	boom := errors.New("502 Bad Gateway")

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_ = cb.Execute(ctx, func(context.Context) error { return boom })
	}
	fmt.Println(cb.State())
	// Output:
	// open
}
