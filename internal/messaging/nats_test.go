package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/logger"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"
	"github.com/GustavoMarques22/plataforma-ensino-api/testing/testnats"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSPublisher_Publish(t *testing.T) {
	natsContainer := testnats.SetupSharedNATS(t)
	sub := natsContainer.Subscribe(t, "plataforma.eventos.>")

	publisher, err := NewNATSPublisher(natsContainer.URL, "plataforma.eventos", metrics.NewMock().Messaging, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Close() })

	event := NewEvent(AreaCursoCriada, 3, map[string]string{"titulo": "Física"})
	require.NoError(t, publisher.Publish(context.Background(), event))

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)

	assert.Equal(t, "plataforma.eventos.area_curso.criada", msg.Subject)
	assert.Equal(t, event.ID, msg.Header.Get(nats.MsgIdHdr))

	var got Event
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, AreaCursoCriada, got.Type)
	assert.Equal(t, map[string]any{"titulo": "Física"}, got.Data)
}
