package resilience

import "context"

// Executor composes a rate limiter and a circuit breaker.
//
// Order: rate limiter (outer), then circuit breaker. A request rejected by
// the limiter never reaches the breaker and is not counted as a failure.
type Executor struct {
	circuitBreaker *CircuitBreaker
	rateLimiter    *RateLimiter
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new executor. With no options it runs op directly.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// CircuitBreaker returns the configured breaker, or nil.
func (e *Executor) CircuitBreaker() *CircuitBreaker {
	return e.circuitBreaker
}

// Execute runs op at most once.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op

	if e.circuitBreaker != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	return run(ctx)
}
