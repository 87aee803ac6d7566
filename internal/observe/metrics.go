// Package observe provides the observability primitives for lexibly:
// OpenTelemetry metrics with a Prometheus exporter bridge, plus the SDK
// provider bootstrap.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package
// level default [Metrics] instance ([DefaultMetrics]) is provided for
// convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all lexibly metrics.
const meterName = "github.com/lexibly/lexibly"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// MatchRate tracks the per-run aligner match rate (0.0–1.0). Use with
	// attribute.String("pipeline", "correct"|"reading"). Persistent low
	// values are a data-quality signal, not an error.
	MatchRate metric.Float64Histogram

	// CorrectionDuration tracks end-to-end correction pipeline latency.
	CorrectionDuration metric.Float64Histogram

	// ReadingDuration tracks end-to-end reading pipeline latency
	// (synthesis + recognition + alignment).
	ReadingDuration metric.Float64Histogram

	// CorrectionBatches counts correction batches by outcome. Use with
	// attribute.String("status", "corrected"|"fallback").
	CorrectionBatches metric.Int64Counter

	// ProviderRequests counts provider API calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts provider errors by provider and kind.
	ProviderErrors metric.Int64Counter
}

// matchRateBuckets covers the 0–1 rate range with finer resolution near the
// quality threshold region.
var matchRateBuckets = []float64{
	0.1, 0.25, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1,
}

// durationBuckets defines histogram boundaries (seconds) sized for
// background pipeline runs that include external service calls.
var durationBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.MatchRate, err = m.Float64Histogram("lexibly.align.match_rate",
		metric.WithDescription("Aligner match rate per reconciliation run."),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(matchRateBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CorrectionDuration, err = m.Float64Histogram("lexibly.correct.duration",
		metric.WithDescription("End-to-end correction pipeline latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ReadingDuration, err = m.Float64Histogram("lexibly.reading.duration",
		metric.WithDescription("End-to-end reading pipeline latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CorrectionBatches, err = m.Int64Counter("lexibly.correct.batches",
		metric.WithDescription("Correction batches by outcome status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderRequests, err = m.Int64Counter("lexibly.provider.requests",
		metric.WithDescription("Total provider API requests by provider, kind, and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("lexibly.provider.errors",
		metric.WithDescription("Total provider errors by provider and kind."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call using [otel.GetMeterProvider]. Panics if instrument creation
// fails (should not happen with the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordMatchRate records one aligner run's match rate for the named
// pipeline.
func (m *Metrics) RecordMatchRate(ctx context.Context, pipeline string, rate float64) {
	m.MatchRate.Record(ctx, rate,
		metric.WithAttributes(attribute.String("pipeline", pipeline)))
}

// RecordProviderRequest records a provider request with the standard
// attribute set, and an error increment when status is "error".
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, kind, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
			attribute.String("status", status),
		))
	if status == "error" {
		m.ProviderErrors.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("provider", provider),
				attribute.String("kind", kind),
			))
	}
}

// RecordBatch records one correction batch outcome ("corrected" or
// "fallback").
func (m *Metrics) RecordBatch(ctx context.Context, status string) {
	m.CorrectionBatches.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)))
}
