package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/config"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"
)

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New builds the publisher selected by cfg.Driver.
func New(cfg config.MessagingConfig, mm *metrics.MessagingMetrics, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case config.MessagingNATS:
		return NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, mm, logger)
	case config.MessagingKafka:
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, mm, logger)
	case config.MessagingNone, "":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unsupported messaging driver %q", cfg.Driver)
	}
}

// Emit publishes event and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish event", "type", event.Type, "id", event.ID, "error", err)
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// MemoryPublisher keeps published events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
	// Err, when set, is returned by every Publish.
	Err error
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Types returns the type of every published event in order.
func (p *MemoryPublisher) Types() []string {
	events := p.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
