// Package metrics holds the OpenTelemetry instruments of the API.
// Every Record method is safe on a zero value so tests can use NewMock.
package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Domain    *DomainMetrics
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics
	Health    *HealthMetrics
	HTTP      *HTTPMetrics
}

// New creates every instrument group on the global meter provider, so it
// must run after the provider is installed.
func New(ctx context.Context, serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)
	m := &Metrics{}

	groups := []struct {
		name  string
		build func(metric.Meter) error
	}{
		{"domain", func(mt metric.Meter) (err error) { m.Domain, err = NewDomainMetrics(mt); return }},
		{"database", func(mt metric.Meter) (err error) { m.Database, err = NewDatabaseMetrics(mt); return }},
		{"messaging", func(mt metric.Meter) (err error) { m.Messaging, err = NewMessagingMetrics(mt); return }},
		{"health", func(mt metric.Meter) (err error) { m.Health, err = NewHealthMetrics(mt); return }},
		{"http", func(mt metric.Meter) (err error) { m.HTTP, err = NewHTTPMetrics(mt); return }},
	}
	for _, g := range groups {
		if err := g.build(meter); err != nil {
			return nil, fmt.Errorf("%s metrics: %w", g.name, err)
		}
	}

	logger.InfoContext(ctx, "metrics collectors initialized successfully", "groups", len(groups))
	return m, nil
}

// NewMock returns Metrics whose instruments are unset; Record calls are no-ops
// and HealthMetrics still tracks dependency state.
func NewMock() *Metrics {
	return &Metrics{
		Domain:    &DomainMetrics{},
		Database:  &DatabaseMetrics{},
		Messaging: &MessagingMetrics{},
		Health:    NewMockHealth(),
		HTTP:      &HTTPMetrics{},
	}
}
