package health

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jonwraymond/pcokit/cache"
	"github.com/jonwraymond/pcokit/pco"
	"github.com/jonwraymond/pcokit/resilience"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestRemoteAPIChecker(t *testing.T) {
	tests := []struct {
		name   string
		ping   pingFunc
		slow   time.Duration
		want   Status
		detail string
	}{
		{"reachable", func(context.Context) error { return nil }, time.Second, StatusHealthy, ""},
		{"slow", func(context.Context) error { time.Sleep(20 * time.Millisecond); return nil }, time.Millisecond, StatusDegraded, ""},
		{"no budget", func(context.Context) error { time.Sleep(5 * time.Millisecond); return nil }, 0, StatusHealthy, ""},
		{"api error", func(context.Context) error {
			return &pco.APIError{StatusCode: http.StatusUnauthorized, Status: "Unauthorized", RequestID: "r1"}
		}, time.Second, StatusUnhealthy, "status_code"},
		{"rejected", func(context.Context) error { return resilience.ErrCircuitOpen }, time.Second, StatusUnhealthy, "rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewRemoteAPIChecker(tt.ping, tt.slow)
			if c.Name() != "pco" {
				t.Errorf("Name() = %q", c.Name())
			}
			r := c.Check(context.Background())
			if r.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", r.Status, tt.want, r.Message)
			}
			if _, ok := r.Details["latency_ms"]; !ok {
				t.Error("latency_ms detail missing")
			}
			if tt.detail != "" {
				if _, ok := r.Details[tt.detail]; !ok {
					t.Errorf("detail %q missing in %v", tt.detail, r.Details)
				}
			}
		})
	}
}

func TestCircuitChecker(t *testing.T) {
	now := time.Date(2026, 1, 4, 9, 0, 0, 0, time.UTC)
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Minute,
		Now:          func() time.Time { return now },
	})
	c := NewCircuitChecker(cb)

	if r := c.Check(context.Background()); r.Status != StatusHealthy || r.Details["state"] != "closed" {
		t.Fatalf("closed: %+v", r)
	}

	_ = cb.Execute(context.Background(), func(context.Context) error { return errors.New("upstream") })
	r := c.Check(context.Background())
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, ErrCircuitOpen) {
		t.Fatalf("open: %+v", r)
	}
	if r.Details["trips"] != 1 || r.Details["opened_at"] == nil {
		t.Errorf("details = %v", r.Details)
	}

	now = now.Add(2 * time.Minute)
	if r := c.Check(context.Background()); r.Status != StatusDegraded {
		t.Errorf("half-open: %+v", r)
	}
}

type failingStore struct {
	cache.Cache
	setErr  error
	pingErr error
	drop    bool
}

func (s *failingStore) Set(ctx context.Context, key string, v []byte, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	if s.drop {
		return nil
	}
	return s.Cache.Set(ctx, key, v, ttl)
}

func (s *failingStore) Ping(context.Context) error { return s.pingErr }

func TestCacheChecker(t *testing.T) {
	mem := func() cache.Cache { return cache.NewMemoryCache(cache.DefaultPolicy()) }
	tests := []struct {
		name  string
		store cache.Cache
		want  Status
	}{
		{"memory", mem(), StatusHealthy},
		{"ping fails", &failingStore{Cache: mem(), pingErr: errors.New("refused")}, StatusUnhealthy},
		{"write fails", &failingStore{Cache: mem(), setErr: errors.New("readonly")}, StatusUnhealthy},
		{"write lost", &failingStore{Cache: mem(), drop: true}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := NewCacheChecker(tt.store).Check(context.Background()); r.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", r.Status, tt.want, r.Message)
			}
		})
	}
}

func TestCacheChecker_CleansUp(t *testing.T) {
	store := cache.NewMemoryCache(cache.DefaultPolicy())
	NewCacheChecker(store).Check(context.Background())
	if store.Len() != 0 {
		t.Errorf("probe left %d entries behind", store.Len())
	}
}

type sizer int

func (s sizer) Len() int { return int(s) }

func TestCacheSizeChecker(t *testing.T) {
	cfg := CacheSizeConfig{WarningEntries: 10, CriticalEntries: 20}
	tests := []struct {
		n    int
		want Status
	}{
		{0, StatusHealthy},
		{9, StatusHealthy},
		{10, StatusDegraded},
		{19, StatusDegraded},
		{20, StatusUnhealthy},
	}
	for _, tt := range tests {
		r := NewCacheSizeChecker(sizer(tt.n), cfg).Check(context.Background())
		if r.Status != tt.want {
			t.Errorf("Len %d: Status = %v, want %v", tt.n, r.Status, tt.want)
		}
		if r.Details["entries"] != tt.n {
			t.Errorf("Len %d: details = %v", tt.n, r.Details)
		}
	}
}

func TestCacheSizeChecker_Defaults(t *testing.T) {
	c := NewCacheSizeChecker(sizer(0), CacheSizeConfig{WarningEntries: 100, CriticalEntries: 50})
	if c.config.CriticalEntries != 200 {
		t.Errorf("CriticalEntries = %d, want 200", c.config.CriticalEntries)
	}
	c = NewCacheSizeChecker(sizer(0), CacheSizeConfig{})
	if c.config.WarningEntries != 50_000 || c.Name() != "cache_size" {
		t.Errorf("defaults = %+v", c.config)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if r := c.Check(ctx); r.Status != StatusUnhealthy {
		t.Errorf("cancelled Check() = %v", r.Status)
	}
}
