package metrics

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MessagingMetrics covers domain events leaving the API through a broker.
type MessagingMetrics struct {
	events   metric.Int64Counter
	latency  metric.Float64Histogram
	failures metric.Int64Counter
}

func NewMessagingMetrics(meter metric.Meter) (*MessagingMetrics, error) {
	events, err := meter.Int64Counter("plataforma.events.published",
		metric.WithDescription("Domain events handed to the broker"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("plataforma.events.publish_duration",
		metric.WithDescription("Broker publish latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("plataforma.events.failed",
		metric.WithDescription("Publishes the broker rejected; the originating request still succeeds"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &MessagingMetrics{events: events, latency: latency, failures: failures}, nil
}

// RecordPublish records one publish attempt of eventType through driver ("nats", "kafka").
// The resource attribute is the part of eventType before the dot (aluno, area_curso, matricula).
func (mm *MessagingMetrics) RecordPublish(ctx context.Context, driver, eventType string, duration time.Duration, err error) {
	if mm == nil || mm.events == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("driver", driver),
		attribute.String("event_type", eventType),
		attribute.String("resource", resourceOf(eventType)),
	)

	mm.events.Add(ctx, 1, attrs)
	mm.latency.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		mm.failures.Add(ctx, 1, attrs)
	}
}

func resourceOf(eventType string) string {
	resource, _, _ := strings.Cut(eventType, ".")
	return resource
}
