package health

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/pcokit/observe"
)

func fixed(r Result) *CheckerFunc {
	return NewCheckerFunc("fixed", func(context.Context) Result { return r })
}

func TestNewAggregator_Defaults(t *testing.T) {
	agg := NewAggregator()
	if agg.config.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", agg.config.Timeout)
	}
	if agg.config.Sequential {
		t.Error("checks should run in parallel by default")
	}

	agg = NewAggregator(AggregatorConfig{Timeout: 5 * time.Second, Sequential: true})
	if agg.config.Timeout != 5*time.Second || !agg.config.Sequential {
		t.Errorf("config = %+v", agg.config)
	}
}

func TestAggregator_RegisterOrder(t *testing.T) {
	agg := NewAggregator()
	agg.Register("pco", fixed(Healthy("ok")))
	agg.Register("cache", fixed(Healthy("ok")))
	agg.Register("circuit", fixed(Healthy("ok")))
	agg.Register("pco", fixed(Healthy("replaced")))
	agg.Unregister("cache")

	names := agg.CheckerNames()
	if strings.Join(names, ",") != "pco,circuit" {
		t.Fatalf("CheckerNames() = %v", names)
	}

	r, err := agg.Check(context.Background(), "pco")
	if err != nil || r.Message != "replaced" {
		t.Errorf("Check(pco) = %+v, %v", r, err)
	}
}

func TestAggregator_CheckNotFound(t *testing.T) {
	_, err := NewAggregator().Check(context.Background(), "nonexistent")
	if !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check() error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		agg := NewAggregator(AggregatorConfig{Sequential: sequential})
		agg.Register("healthy", fixed(Healthy("ok")))
		agg.Register("degraded", fixed(Degraded("slow")))

		results := agg.CheckAll(context.Background())
		if len(results) != 2 {
			t.Fatalf("sequential=%v: %d results, want 2", sequential, len(results))
		}
		if results["healthy"].Status != StatusHealthy || results["degraded"].Status != StatusDegraded {
			t.Errorf("sequential=%v: results = %+v", sequential, results)
		}
		if results["healthy"].Duration == 0 && results["healthy"].Timestamp.IsZero() {
			t.Error("runCheck should stamp results")
		}
	}

	if got := NewAggregator().CheckAll(context.Background()); len(got) != 0 {
		t.Errorf("empty CheckAll = %v", got)
	}
}

func TestAggregator_SequentialOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(name string) *CheckerFunc {
		return NewCheckerFunc(name, func(context.Context) Result {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return Healthy("ok")
		})
	}

	agg := NewAggregator(AggregatorConfig{Sequential: true})
	for _, n := range []string{"c", "a", "b"} {
		agg.Register(n, record(n))
	}
	agg.CheckAll(context.Background())

	if strings.Join(order, "") != "cab" {
		t.Errorf("order = %v, want registration order", order)
	}
}

func TestAggregator_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 50 * time.Millisecond})
	agg.Register("slow", NewCheckerFunc("slow", func(context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("ok")
	}))

	r := agg.CheckAll(context.Background())["slow"]
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, ErrCheckTimeout) {
		t.Errorf("slow = %+v, want timeout", r)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()
	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"empty", map[string]Result{}, StatusHealthy},
		{"all healthy", map[string]Result{"a": Healthy("ok"), "b": Healthy("ok")}, StatusHealthy},
		{"one degraded", map[string]Result{"a": Healthy("ok"), "b": Degraded("slow")}, StatusDegraded},
		{"one unhealthy", map[string]Result{"a": Healthy("ok"), "b": Unhealthy("down", nil)}, StatusUnhealthy},
		{"unhealthy wins", map[string]Result{"a": Degraded("slow"), "b": Unhealthy("down", nil)}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agg.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregator_LogsUnhealthy(t *testing.T) {
	var buf bytes.Buffer
	agg := NewAggregator(AggregatorConfig{Logger: observe.NewLoggerWithWriter("debug", &buf)})
	agg.Register("pco", fixed(Unhealthy("remote API unreachable", errors.New("dial tcp: refused"))))
	agg.Register("cache", fixed(Healthy("ok")))

	agg.CheckAll(context.Background())

	out := buf.String()
	if !strings.Contains(out, `"check":"pco"`) || !strings.Contains(out, "dial tcp: refused") {
		t.Errorf("log = %s", out)
	}
	if strings.Contains(out, `"check":"cache"`) {
		t.Errorf("healthy checks should not be logged: %s", out)
	}
}

func TestAggregator_Checker(t *testing.T) {
	agg := NewAggregator()
	agg.Register("down", fixed(Unhealthy("down", nil)))

	c := agg.Checker()
	if c.Name() != "aggregate" {
		t.Errorf("Name() = %v", c.Name())
	}
	r := c.Check(context.Background())
	if r.Status != StatusUnhealthy || r.Message != "some checks failed" {
		t.Errorf("Check() = %+v", r)
	}
	if _, ok := r.Details["down"]; !ok {
		t.Errorf("Details = %v", r.Details)
	}
}
