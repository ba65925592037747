// Package observe wires OpenTelemetry metrics and tracing into the family
// tools servers, plus HTTP middleware that ties requests to both.
//
// Instruments are created through the OTel Metrics API. [InitProvider]
// installs a Prometheus exporter bridge so the same numbers can be scraped at
// /metrics. [DefaultMetrics] returns a process-wide instance built from the
// global provider; tests should call [NewMetrics] with their own
// [metric.MeterProvider].
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/MrWong99/familytools"

// Metric status attribute values.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// Metrics holds the instruments recorded by the servers.
type Metrics struct {
	// ToolCalls counts tool invocations by "tool" and "status".
	ToolCalls metric.Int64Counter

	// ToolDuration tracks tool handler latency by "tool".
	ToolDuration metric.Float64Histogram

	// RowsSkipped counts catalogue rows dropped as malformed, by "tool".
	RowsSkipped metric.Int64Counter

	// GeocodeRequests counts address lookups by "provider" and "status".
	GeocodeRequests metric.Int64Counter

	// GeocodeDuration tracks geocoding latency, including rate gate waits.
	GeocodeDuration metric.Float64Histogram

	// WeatherRequests counts weather service fetches by "status".
	WeatherRequests metric.Int64Counter

	// BreakerTransitions counts circuit breaker state changes by "name" and
	// "to".
	BreakerTransitions metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request latency by "method" and "path".
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets are histogram boundaries in seconds. Remote lookups sit in
// the upper range because of the one-per-second geocoder spacing.
var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates every instrument against mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ToolCalls, err = m.Int64Counter("familytools.tool.calls",
		metric.WithDescription("Tool invocations by tool name and status."),
	); err != nil {
		return nil, err
	}
	if met.ToolDuration, err = m.Float64Histogram("familytools.tool.duration",
		metric.WithDescription("Latency of tool handlers."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RowsSkipped, err = m.Int64Counter("familytools.activity.rows_skipped",
		metric.WithDescription("Malformed activity rows skipped by tool."),
	); err != nil {
		return nil, err
	}
	if met.GeocodeRequests, err = m.Int64Counter("familytools.geocode.requests",
		metric.WithDescription("Address lookups by provider and status."),
	); err != nil {
		return nil, err
	}
	if met.GeocodeDuration, err = m.Float64Histogram("familytools.geocode.duration",
		metric.WithDescription("Latency of address lookups including rate limiting."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.WeatherRequests, err = m.Int64Counter("familytools.weather.requests",
		metric.WithDescription("Weather service fetches by status."),
	); err != nil {
		return nil, err
	}
	if met.BreakerTransitions, err = m.Int64Counter("familytools.breaker.transitions",
		metric.WithDescription("Circuit breaker state changes by breaker and target state."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("familytools.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics], creating it from
// [otel.GetMeterProvider] on first use. It panics if instrument creation
// fails, which the global provider never does.
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

// Attr is shorthand for [attribute.String].
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordToolCall records one tool invocation and its latency in seconds.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string, seconds float64) {
	m.ToolCalls.Add(ctx, 1, metric.WithAttributes(Attr("tool", tool), Attr("status", status)))
	m.ToolDuration.Record(ctx, seconds, metric.WithAttributes(Attr("tool", tool)))
}

// RecordRowsSkipped adds n to the skipped row counter for tool. It is a no-op
// when n is zero.
func (m *Metrics) RecordRowsSkipped(ctx context.Context, tool string, n int) {
	if n <= 0 {
		return
	}
	m.RowsSkipped.Add(ctx, int64(n), metric.WithAttributes(Attr("tool", tool)))
}

// RecordGeocode records one address lookup.
func (m *Metrics) RecordGeocode(ctx context.Context, provider, status string, seconds float64) {
	m.GeocodeRequests.Add(ctx, 1, metric.WithAttributes(Attr("provider", provider), Attr("status", status)))
	m.GeocodeDuration.Record(ctx, seconds)
}

// RecordWeather records one weather service fetch.
func (m *Metrics) RecordWeather(ctx context.Context, status string) {
	m.WeatherRequests.Add(ctx, 1, metric.WithAttributes(Attr("status", status)))
}

// RecordBreakerTransition records a breaker entering state to.
func (m *Metrics) RecordBreakerTransition(ctx context.Context, name, to string) {
	m.BreakerTransitions.Add(ctx, 1, metric.WithAttributes(Attr("name", name), Attr("to", to)))
}
