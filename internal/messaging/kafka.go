package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"

	"github.com/IBM/sarama"
)

// KafkaPublisher writes every event to one topic, keyed by entity id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.MessagingMetrics
	logger   *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, mm *metrics.MessagingMetrics, logger *slog.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaConfig())
	if err != nil {
		return nil, err
	}

	logger.Info("kafka publisher initialized", "brokers", brokers, "topic", topic)

	return NewKafkaPublisherWithProducer(producer, topic, mm, logger), nil
}

func NewKafkaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "plataforma-ensino-api"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	return config
}

// NewKafkaPublisherWithProducer wraps an existing producer (sarama/mocks in tests).
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, mm *metrics.MessagingMetrics, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		metrics:  mm,
		logger:   logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.ID)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	p.metrics.RecordPublish(ctx, "kafka", event.Type, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to kafka", "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event sent to kafka", "topic", p.topic, "partition", partition, "offset", offset, "key", event.Key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
