package health

import (
	"context"
	"net/http"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/httputil"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// Pinger is satisfied by *bun.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db      Pinger
	metrics *metrics.HealthMetrics
}

func NewHandler(db Pinger, healthMetrics *metrics.HealthMetrics) *Handler {
	return &Handler{db: db, metrics: healthMetrics}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Health is liveness only. Once /ready has run it also reports the last
// database probe outcome, without touching the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if !h.metrics.LastChecked("database").IsZero() {
		resp.Database = "down"
		if h.metrics.Available("database") {
			resp.Database = "up"
		}
	}
	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

// Ready pings the database; a failed ping answers 503.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	h.metrics.RecordDependencyCheck(r.Context(), "database", time.Since(start), err)

	if err != nil {
		httputil.RespondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}
