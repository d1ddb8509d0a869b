package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPTelemetry records request counts, errors and latency for one HTTP surface
// (the outbound gateway or the shell server).
type HTTPTelemetry struct {
	requestCounter    metric.Int64Counter
	errorCounter      metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

// RequestMetrics contains the telemetry data for a request
type RequestMetrics struct {
	Method     string
	Endpoint   string
	StatusCode int
	Duration   time.Duration
	// ErrorClass is empty on success.
	ErrorClass string
}

// NewHTTPTelemetry creates the instruments under the given metric prefix
func NewHTTPTelemetry(meter metric.Meter, prefix string) (*HTTPTelemetry, error) {
	t := &HTTPTelemetry{}
	var err error

	t.requestCounter, err = meter.Int64Counter(
		prefix+"_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	t.errorCounter, err = meter.Int64Counter(
		prefix+"_errors_total",
		metric.WithDescription("Total number of failed HTTP requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	t.durationHistogram, err = meter.Float64Histogram(
		prefix+"_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return t, nil
}

// Record registers one request. A nil receiver is a no-op so callers can run without metrics.
func (t *HTTPTelemetry) Record(ctx context.Context, m RequestMetrics) {
	if t == nil {
		return
	}

	// Low-cardinality attributes only
	attrs := []attribute.KeyValue{
		attribute.String("method", m.Method),
		attribute.String("endpoint", m.Endpoint),
		attribute.Int("status_code", m.StatusCode),
	}

	t.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	t.durationHistogram.Record(ctx, m.Duration.Seconds(), metric.WithAttributes(attrs...))

	if m.ErrorClass != "" {
		t.errorCounter.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("error_type", m.ErrorClass))...))
		slog.Debug("Recorded request error",
			"method", m.Method,
			"endpoint", m.Endpoint,
			"status_code", m.StatusCode,
			"error_type", m.ErrorClass,
		)
	}
}
