package areacurso

import (
	"log/slog"
	"net/http"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/httputil"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	pages   filter.PageDefaults
	logger  *slog.Logger
	metrics *metrics.DomainMetrics
}

func NewHandler(service Service, pages filter.PageDefaults, logger *slog.Logger, domainMetrics *metrics.DomainMetrics) *Handler {
	return &Handler{
		service: service,
		pages:   pages,
		logger:  logger,
		metrics: domainMetrics,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/areas-cursos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := ListFilter{
		Titulo: query.Get("titulo"),
		Page:   filter.ParsePage(query, h.pages),
	}

	h.logger.InfoContext(r.Context(), "listing areas de curso", "titulo", f.Titulo, "page", f.Page.Number)
	areas, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao listar áreas de curso")
		return
	}

	h.metrics.RecordListViewed(r.Context(), "area_cursos")

	httputil.RespondPage(w, areas, filter.NewPagination(f.Page, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar área de curso")
		return
	}

	area, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar área de curso")
		return
	}

	httputil.RespondData(w, http.StatusOK, "", area)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao criar área de curso")
		return
	}

	h.logger.InfoContext(r.Context(), "creating area de curso", "titulo", req.Titulo)
	area, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao criar área de curso")
		return
	}

	h.metrics.RecordAreaCursoCreated(r.Context())

	httputil.RespondData(w, http.StatusCreated, MsgCreated, area)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar área de curso")
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar área de curso")
		return
	}

	h.logger.InfoContext(r.Context(), "updating area de curso", "id", id)
	area, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar área de curso")
		return
	}

	httputil.RespondData(w, http.StatusOK, MsgUpdated, area)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao excluir área de curso")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting area de curso", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao excluir área de curso")
		return
	}

	h.metrics.RecordAreaCursoDeleted(r.Context())

	httputil.RespondMessage(w, http.StatusOK, MsgDeleted)
}
