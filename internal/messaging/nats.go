package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes each event on "<subject>.<event type>".
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	metrics *metrics.MessagingMetrics
	logger  *slog.Logger
}

func NewNATSPublisher(url string, subject string, mm *metrics.MessagingMetrics, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("plataforma-ensino-api"))
	if err != nil {
		return nil, err
	}

	logger.Info("NATS publisher initialized", "url", url, "subject", subject)

	return &NATSPublisher{
		conn:    nc,
		subject: subject,
		metrics: mm,
		logger:  logger,
	}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	msg := nats.NewMsg(p.subject + "." + event.Type)
	msg.Data = payload
	// JetStream uses this header for de-duplication.
	msg.Header.Set(nats.MsgIdHdr, event.ID)

	err = p.conn.PublishMsg(msg)
	p.metrics.RecordPublish(ctx, "nats", event.Type, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to NATS", "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event sent to NATS", "subject", msg.Subject, "id", event.ID)
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
