package resilience

import (
	"context"
	"math"
	"sync"
	"time"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of requests allowed per second.
	// Default: 10
	Rate float64

	// Burst is the bucket size.
	// Default: Rate rounded up, at least 1
	Burst int

	// MaxWait bounds how long Execute waits for a token. Zero rejects
	// immediately when the bucket is empty.
	MaxWait time.Duration

	// Now is the clock. Default: time.Now
	Now func() time.Time
}

// RateLimiter implements a token bucket.
type RateLimiter struct {
	cfg RateLimiterConfig

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a new rate limiter with a full bucket.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.Rate)
		if float64(cfg.Burst) < cfg.Rate {
			cfg.Burst++
		}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &RateLimiter{
		cfg:    cfg,
		tokens: float64(cfg.Burst),
		last:   cfg.Now(),
	}
}

// Allow takes one token if available.
func (rl *RateLimiter) Allow() bool {
	ok, _ := rl.reserve()
	return ok
}

// reserve takes a token, or reports how long until one is available.
func (rl *RateLimiter) reserve() (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens >= 1 {
		rl.tokens--
		return true, 0
	}
	missing := 1 - rl.tokens
	return false, time.Duration(math.Ceil(missing / rl.cfg.Rate * float64(time.Second)))
}

// Wait blocks until a token is taken, MaxWait elapses, or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, delay := rl.reserve()
	if ok {
		return nil
	}
	if rl.cfg.MaxWait <= 0 || delay > rl.cfg.MaxWait {
		return ErrRateLimitExceeded
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if rl.Allow() {
		return nil
	}
	return ErrRateLimitExceeded
}

// Execute runs op once a token is taken.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Wait(ctx); err != nil {
		return err
	}
	return op(ctx)
}

func (rl *RateLimiter) refillLocked() {
	now := rl.cfg.Now()
	elapsed := now.Sub(rl.last)
	if elapsed <= 0 {
		return
	}
	rl.last = now
	rl.tokens += elapsed.Seconds() * rl.cfg.Rate
	if limit := float64(rl.cfg.Burst); rl.tokens > limit {
		rl.tokens = limit
	}
}

// Tokens returns the number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset refills the bucket.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.cfg.Burst)
	rl.last = rl.cfg.Now()
}
