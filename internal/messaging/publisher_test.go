package messaging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/config"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/logger"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Noop(t *testing.T) {
	p, err := New(config.MessagingConfig{Driver: config.MessagingNone}, metrics.NewMock().Messaging, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.Publish(context.Background(), NewEvent(AlunoCriado, 1, nil)))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(config.MessagingConfig{Driver: "rabbitmq"}, metrics.NewMock().Messaging, logger.Discard())
	assert.Error(t, err)
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(MatriculaExcluida, 42, nil)

	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, "42", event.Key)
	assert.Equal(t, MatriculaExcluida, event.Type)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestEmit_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	p := NewMemoryPublisher()
	p.Err = errors.New("nats: connection closed")

	assert.NotPanics(t, func() {
		Emit(context.Background(), p, log, NewEvent(AlunoExcluido, 1, nil))
	})
	assert.Contains(t, buf.String(), "failed to publish event")
	assert.Empty(t, p.Events())

	p.Err = nil
	Emit(context.Background(), p, log, NewEvent(AlunoExcluido, 1, nil))
	assert.Equal(t, []string{AlunoExcluido}, p.Types())
}
