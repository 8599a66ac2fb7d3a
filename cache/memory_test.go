package cache

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryCache_GetSetDelete(t *testing.T) {
	cache := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()

	val, ok := cache.Get(ctx, "nonexistent")
	if ok || val != nil {
		t.Error("Get on empty cache should return (nil, false)")
	}

	key := BuildKey("plans", "st1")
	value := []byte(`[{"id":"1"}]`)
	if err := cache.Set(ctx, key, value, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := cache.Get(ctx, key)
	if !ok {
		t.Error("Get after Set should return ok=true")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := cache.Get(ctx, key); ok {
		t.Error("Get after Delete should return ok=false")
	}

	if err := cache.Delete(ctx, "nonexistent"); err != nil {
		t.Errorf("Delete on non-existent key should not error, got: %v", err)
	}
}

// TestMemoryCache_TTLBoundary sets x=1 at t=0, reads it at 299,999ms and
// again at 300,001ms.
func TestMemoryCache_TTLBoundary(t *testing.T) {
	clock := newFakeClock()
	cache := NewMemoryCache(DefaultPolicy(), WithClock(clock.Now))
	ctx := context.Background()

	if err := cache.Set(ctx, "x", []byte("1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	clock.Advance(299_999 * time.Millisecond)
	got, ok := cache.Get(ctx, "x")
	if !ok || string(got) != "1" {
		t.Fatalf("Get at 299,999ms = (%q, %v), want (1, true)", got, ok)
	}

	clock.Advance(2 * time.Millisecond)
	got, ok = cache.Get(ctx, "x")
	if ok || got != nil {
		t.Fatalf("Get at 300,001ms = (%q, %v), want (nil, false)", got, ok)
	}
	if cache.Len() != 0 {
		t.Errorf("stale entry should be evicted on read, Len() = %d", cache.Len())
	}
}

func TestMemoryCache_ExactTTLIsFresh(t *testing.T) {
	clock := newFakeClock()
	cache := NewMemoryCache(DefaultPolicy(), WithClock(clock.Now))
	ctx := context.Background()

	_ = cache.Set(ctx, "x", []byte("1"), 0)
	clock.Advance(DefaultTTL)
	if _, ok := cache.Get(ctx, "x"); !ok {
		t.Error("entry exactly TTL old should still be served")
	}
}

func TestMemoryCache_SetOverwriteResetsAge(t *testing.T) {
	clock := newFakeClock()
	cache := NewMemoryCache(DefaultPolicy(), WithClock(clock.Now))
	ctx := context.Background()

	_ = cache.Set(ctx, "k", []byte("v1"), 0)
	clock.Advance(4 * time.Minute)
	_ = cache.Set(ctx, "k", []byte("v2"), 0)
	clock.Advance(4 * time.Minute)

	got, ok := cache.Get(ctx, "k")
	if !ok || string(got) != "v2" {
		t.Errorf("Get = (%q, %v), want (v2, true)", got, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1 entry per key", cache.Len())
	}
}

func TestMemoryCache_NoCachePolicy(t *testing.T) {
	cache := NewMemoryCache(NoCachePolicy())
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := cache.Get(ctx, "k"); ok {
		t.Error("disabled policy should store nothing")
	}
}

func TestMemoryCache_InvalidKey(t *testing.T) {
	cache := NewMemoryCache(DefaultPolicy())
	if err := cache.Set(context.Background(), "", []byte("v"), 0); err != ErrInvalidKey {
		t.Errorf("Set(\"\") = %v, want ErrInvalidKey", err)
	}
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	cache := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()

	keys := []string{
		BuildKey("schedules", "st1", "p1"),
		BuildKey("schedules", "st1", "p10"),
		BuildKey("schedules", "st2", "p1"),
		BuildKey("plans", "st1"),
	}
	for _, k := range keys {
		_ = cache.Set(ctx, k, []byte("v"), 0)
	}

	n, err := cache.DeletePrefix(ctx, KeyPrefix("schedules", "st1", "p1"))
	if err != nil {
		t.Fatalf("DeletePrefix failed: %v", err)
	}
	if n != 1 {
		t.Errorf("DeletePrefix removed %d, want 1", n)
	}
	if _, ok := cache.Get(ctx, keys[1]); !ok {
		t.Error("p10 schedules should survive")
	}

	n, _ = cache.DeletePrefix(ctx, KeyPrefix("schedules"))
	if n != 2 {
		t.Errorf("DeletePrefix(schedules) removed %d, want 2", n)
	}
	if _, ok := cache.Get(ctx, keys[3]); !ok {
		t.Error("plans entry should survive schedules invalidation")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), 0)
	_ = cache.Set(ctx, "b", []byte("2"), 0)
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", cache.Len())
	}
}

func TestMemoryCache_IsolatedInstances(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryCache(DefaultPolicy())
	b := NewMemoryCache(DefaultPolicy())

	_ = a.Set(ctx, "k", []byte("v"), 0)
	if _, ok := b.Get(ctx, "k"); ok {
		t.Error("stores should not share entries")
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(DefaultPolicy())
	ctx := context.Background()

	const numGoroutines = 50
	const opsPerGoroutine = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				key := BuildKey("people", "")
				switch j % 4 {
				case 0:
					_ = cache.Set(ctx, key, []byte("v"), 0)
				case 1:
					_, _ = cache.Get(ctx, key)
				case 2:
					_ = cache.Delete(ctx, key)
				case 3:
					_, _ = cache.DeletePrefix(ctx, KeyPrefix("people"))
				}
			}
		}()
	}

	wg.Wait()
}
