package health

import (
	"context"
	"fmt"
)

// Sizer reports how many entries a store holds. *cache.MemoryCache
// implements it.
type Sizer interface {
	Len() int
}

// CacheSizeConfig configures the cache size checker.
type CacheSizeConfig struct {
	// WarningEntries is the entry count that triggers degraded status.
	// Default: 50,000
	WarningEntries int

	// CriticalEntries is the entry count that triggers unhealthy status.
	// Default: twice WarningEntries
	CriticalEntries int
}

// CacheSizeChecker watches the entry count of an unbounded in-memory store.
// Stale entries count until they are read, so a steadily growing count means
// keys are not being revisited.
type CacheSizeChecker struct {
	store  Sizer
	config CacheSizeConfig
}

// NewCacheSizeChecker creates a CacheSizeChecker.
func NewCacheSizeChecker(store Sizer, config CacheSizeConfig) *CacheSizeChecker {
	if config.WarningEntries <= 0 {
		config.WarningEntries = 50_000
	}
	if config.CriticalEntries <= config.WarningEntries {
		config.CriticalEntries = 2 * config.WarningEntries
	}
	return &CacheSizeChecker{store: store, config: config}
}

// Name returns "cache_size".
func (c *CacheSizeChecker) Name() string {
	return "cache_size"
}

// Check compares the entry count with the thresholds.
func (c *CacheSizeChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	n := c.store.Len()
	details := map[string]any{
		"entries":          n,
		"warning_entries":  c.config.WarningEntries,
		"critical_entries": c.config.CriticalEntries,
	}

	switch {
	case n >= c.config.CriticalEntries:
		return Unhealthy(fmt.Sprintf("cache holds %d entries", n), ErrCheckFailed).WithDetails(details)
	case n >= c.config.WarningEntries:
		return Degraded(fmt.Sprintf("cache holds %d entries", n)).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("cache holds %d entries", n)).WithDetails(details)
}
