package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/config"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Prometheus(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()

	tel, err := Init(ctx, config.TelemetryConfig{Exporter: config.ExporterPrometheus}, "plataforma-ensino-api", "test", "local", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Shutdown(context.Background(), tel.MeterProvider, log) })
	require.NotNil(t, tel.Handler)

	tel.Metrics.Domain.RecordAlunoCreated(ctx)

	rec := httptest.NewRecorder()
	tel.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "plataforma_alunos_created")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestInit_None(t *testing.T) {
	log := logger.Discard()

	tel, err := Init(context.Background(), config.TelemetryConfig{Exporter: config.ExporterNone}, "plataforma-ensino-api", "test", "local", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Shutdown(context.Background(), tel.MeterProvider, log) })

	assert.Nil(t, tel.Handler)
	assert.NotNil(t, tel.Metrics)
}
