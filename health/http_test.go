package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serve(t *testing.T, agg *Aggregator, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	Routes(agg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLivenessHandler(t *testing.T) {
	rec := serve(t, NewAggregator(), "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "text/plain" {
		t.Errorf("Content-Type = %v", rec.Header().Get("Content-Type"))
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantCode int
		wantBody string
	}{
		{"healthy", Healthy("ok"), http.StatusOK, "OK"},
		{"degraded", Degraded("slow"), http.StatusOK, "DEGRADED"},
		{"unhealthy", Unhealthy("down", nil), http.StatusServiceUnavailable, "UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.Register("pco", fixed(tt.result))

			rec := serve(t, agg, "/readyz")
			if rec.Code != tt.wantCode || rec.Body.String() != tt.wantBody {
				t.Errorf("got %d %q, want %d %q", rec.Code, rec.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	agg := NewAggregator()
	agg.Register("pco", fixed(Healthy("ok").WithDetails(map[string]any{"latency_ms": 3})))
	agg.Register("cache", fixed(Unhealthy("cache write failed", ErrCheckFailed)))

	rec := serve(t, agg, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %v", rec.Header().Get("Content-Type"))
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "unhealthy" || resp.Timestamp == "" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Checks["pco"].Status != "healthy" || resp.Checks["pco"].Details["latency_ms"] != float64(3) {
		t.Errorf("pco = %+v", resp.Checks["pco"])
	}
	if resp.Checks["cache"].Error == "" {
		t.Error("cache check should carry its error")
	}
}

func TestDetailedHandler_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 50 * time.Millisecond})
	agg.Register("slow", NewCheckerFunc("slow", func(context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("ok")
	}))

	rec := serve(t, agg, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503 for timed out check", rec.Code)
	}
}

func TestSingleCheckHandler(t *testing.T) {
	agg := NewAggregator()
	agg.Register("pco", fixed(Healthy("ok")))
	agg.Register("circuit", fixed(Unhealthy("circuit open", ErrCircuitOpen)))

	tests := []struct {
		path string
		code int
	}{
		{"/health/pco", http.StatusOK},
		{"/health/circuit", http.StatusServiceUnavailable},
		{"/health/nonexistent", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, agg, tt.path)
			if rec.Code != tt.code {
				t.Errorf("Status = %d, want %d", rec.Code, tt.code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
		})
	}
}
