package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/logger"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"

	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewKafkaConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event map[string]any
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event["type"] != AlunoCriado {
			return errors.New("unexpected event type")
		}
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer, "plataforma.eventos", metrics.NewMock().Messaging, logger.Discard())
	t.Cleanup(func() { _ = publisher.Close() })

	err := publisher.Publish(context.Background(), NewEvent(AlunoCriado, 1, map[string]string{"nome": "Ana"}))
	require.NoError(t, err)
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewKafkaConfig())
	producer.ExpectSendMessageAndFail(errors.New("broker unavailable"))

	publisher := NewKafkaPublisherWithProducer(producer, "plataforma.eventos", metrics.NewMock().Messaging, logger.Discard())
	t.Cleanup(func() { _ = publisher.Close() })

	err := publisher.Publish(context.Background(), NewEvent(MatriculaCriada, 7, nil))
	assert.EqualError(t, err, "broker unavailable")
}
