package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"marketplace-client/internal/config"
)

// Telemetry owns the meter provider and, for the prometheus exporter, the registry it feeds
type Telemetry struct {
	Provider *metric.MeterProvider
	registry *promclient.Registry
	meter    api.Meter
	exporter string
}

// InitMetrics builds the meter provider selected by cfg.Exporter and installs it globally
func InitMetrics(ctx context.Context, cfg config.TelemetryConfig, meterName string) (*Telemetry, error) {
	t := &Telemetry{exporter: cfg.Exporter}

	switch cfg.Exporter {
	case "prometheus":
		slog.Info("Starting metrics with prometheus exporter")
		if err := t.initScrapeMetrics(); err != nil {
			return nil, err
		}
	case "otlp":
		slog.Info("Starting metrics with grpc exporter", "endpoint", cfg.OTLPEndpoint)
		if err := t.initGRPCMetrics(ctx, cfg.OTLPEndpoint); err != nil {
			return nil, err
		}
	default:
		// No reader: instruments are valid but nothing is collected.
		t.Provider = metric.NewMeterProvider()
	}

	otel.SetMeterProvider(t.Provider)
	t.meter = t.Provider.Meter(meterName)
	return t, nil
}

// Meter returns the meter instruments should be created from
func (t *Telemetry) Meter() api.Meter {
	return t.meter
}

// Handler serves the scrape endpoint. Without the prometheus exporter it
// still exposes the process collectors.
func (t *Telemetry) Handler() http.Handler {
	if t.registry != nil {
		return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

// Shutdown flushes pending exports and stops the provider
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.Provider == nil {
		return nil
	}
	if err := t.Provider.ForceFlush(ctx); err != nil {
		slog.Warn("Failed to flush metrics", "error", err)
	}
	return t.Provider.Shutdown(ctx)
}

// Initialize GRPC metrics exporter. An empty endpoint falls back to
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT or localhost:4317.
func (t *Telemetry) initGRPCMetrics(ctx context.Context, endpoint string) error {
	var opts []otlpmetricgrpc.Option
	if endpoint != "" {
		opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint), otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create grpc exporter: %w", err)
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exporter)))
	return nil
}

// initScrapeMetrics wires the otel prometheus exporter into a private registry.
func (t *Telemetry) initScrapeMetrics() error {
	t.registry = promclient.NewRegistry()
	t.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := prometheus.New(prometheus.WithRegisterer(t.registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(exporter))
	return nil
}
