package matricula

import (
	"log/slog"
	"net/http"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/aluno"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/areacurso"
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
	r.Route("/matriculas", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/aluno/{alunoId}", h.ByAluno)
		r.Get("/area-curso/{areaCursoId}", h.ByAreaCurso)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := ListFilter{
		Status: query.Get("status"),
		Page:   filter.ParsePage(query, h.pages),
	}

	h.logger.InfoContext(r.Context(), "listing matriculas", "status", f.Status, "page", f.Page.Number)
	matriculas, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao listar matrículas")
		return
	}

	h.metrics.RecordListViewed(r.Context(), "matriculas")

	httputil.RespondPage(w, matriculas, filter.NewPagination(f.Page, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar matrícula")
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar matrícula")
		return
	}

	httputil.RespondData(w, http.StatusOK, "", m)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao criar matrícula")
		return
	}

	h.logger.InfoContext(r.Context(), "creating matricula")
	m, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao criar matrícula")
		return
	}

	h.metrics.RecordMatriculaCreated(r.Context(), string(m.Status))

	httputil.RespondData(w, http.StatusCreated, MsgCreated, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar matrícula")
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar matrícula")
		return
	}

	h.logger.InfoContext(r.Context(), "updating matricula", "id", id)
	m, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar matrícula")
		return
	}

	httputil.RespondData(w, http.StatusOK, MsgUpdated, m)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao excluir matrícula")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting matricula", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao excluir matrícula")
		return
	}

	h.metrics.RecordMatriculaDeleted(r.Context())

	httputil.RespondMessage(w, http.StatusOK, MsgDeleted)
}

func (h *Handler) ByAluno(w http.ResponseWriter, r *http.Request) {
	alunoID, err := httputil.PathID(r, "alunoId", aluno.MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar matrículas do aluno")
		return
	}

	result, err := h.service.ByAluno(r.Context(), alunoID)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar matrículas do aluno")
		return
	}

	httputil.RespondData(w, http.StatusOK, "", result)
}

func (h *Handler) ByAreaCurso(w http.ResponseWriter, r *http.Request) {
	areaCursoID, err := httputil.PathID(r, "areaCursoId", areacurso.MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar matrículas da área de curso")
		return
	}

	result, err := h.service.ByAreaCurso(r.Context(), areaCursoID)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar matrículas da área de curso")
		return
	}

	httputil.RespondData(w, http.StatusOK, "", result)
}
