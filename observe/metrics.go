package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records request and cache metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records one operation with duration and error status.
	RecordRequest(ctx context.Context, meta OperationMeta, duration time.Duration, err error)

	// RecordCache records a cache lookup for a resource family.
	RecordCache(ctx context.Context, resource string, hit bool)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
}

// NewMetrics creates Metrics instruments on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"pco.requests.total",
		metric.WithDescription("Total number of data-access operations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"pco.requests.errors",
		metric.WithDescription("Total number of failed data-access operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"pco.requests.duration_ms",
		metric.WithDescription("Operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"pco.cache.hits",
		metric.WithDescription("Fresh cache entries served without a fetch"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"pco.cache.misses",
		metric.WithDescription("Cache lookups that required a fetch"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		cacheHits:    cacheHits,
		cacheMisses:  cacheMisses,
	}, nil
}

// RecordRequest records metrics for one operation.
func (m *metricsImpl) RecordRequest(ctx context.Context, meta OperationMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("op.kind", meta.Kind),
	}
	if meta.Resource != "" {
		attrs = append(attrs, attribute.String("op.resource", meta.Resource))
	}
	if meta.Method != "" {
		attrs = append(attrs, attribute.String("http.request.method", meta.Method))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordCache counts a hit or miss.
func (m *metricsImpl) RecordCache(ctx context.Context, resource string, hit bool) {
	opt := metric.WithAttributes(attribute.String("op.resource", resource))
	if hit {
		m.cacheHits.Add(ctx, 1, opt)
		return
	}
	m.cacheMisses.Add(ctx, 1, opt)
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) RecordRequest(context.Context, OperationMeta, time.Duration, error) {}
func (noopMetrics) RecordCache(context.Context, string, bool)                         {}
