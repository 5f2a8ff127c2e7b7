// Package telemetry wires the OpenTelemetry meter provider to the configured
// exporter and builds the API instruments on top of it.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/config"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const otlpInterval = 10 * time.Second

type Telemetry struct {
	MeterProvider *metric.MeterProvider
	Metrics       *metrics.Metrics
	// Handler serves /metrics for the prometheus exporter; nil otherwise.
	Handler http.Handler
}

// Init installs a global meter provider for cfg.Exporter and creates the
// instruments. With ExporterNone the instruments still work but nothing is exported.
func Init(ctx context.Context, cfg config.TelemetryConfig, serviceName, serviceVersion, env string, logger *slog.Logger) (*Telemetry, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
		semconv.DeploymentEnvironment(env),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []metric.Option{metric.WithResource(res)}
	var handler http.Handler

	switch cfg.Exporter {
	case config.ExporterOTLP:
		reader, err := otlpReader(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, metric.WithReader(reader))
	case config.ExporterPrometheus:
		reader, h, err := prometheusReader()
		if err != nil {
			return nil, err
		}
		logger.Info("initializing OTel metrics", "exporter", cfg.Exporter)
		opts = append(opts, metric.WithReader(reader))
		handler = h
	default:
		logger.Info("metrics export disabled")
	}

	provider := metric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)

	m, err := metrics.New(ctx, serviceName, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if err := m.Health.RegisterServiceInfo(otel.Meter(serviceName), serviceName, serviceVersion, env); err != nil {
		logger.Warn("failed to register build info", "error", err)
	}

	return &Telemetry{MeterProvider: provider, Metrics: m, Handler: handler}, nil
}

// otlpReader pushes to an OTLP gRPC collector. OTEL_EXPORTER_OTLP_ENDPOINT wins
// over the config file.
func otlpReader(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (metric.Reader, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = cfg.OTLPEndpoint
	}
	logger.Info("initializing OTel metrics", "exporter", config.ExporterOTLP, "endpoint", endpoint)

	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}
	return metric.NewPeriodicReader(exporter, metric.WithInterval(otlpInterval)), nil
}

// prometheusReader exposes the OTel instruments next to the Go runtime and
// process collectors on a private registry.
func prometheusReader() (metric.Reader, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	return exporter, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

func Shutdown(ctx context.Context, provider *metric.MeterProvider, logger *slog.Logger) error {
	logger.Info("shutting down OTel meter provider")
	if err := provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
