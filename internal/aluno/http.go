package aluno

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
	r.Route("/alunos", func(r chi.Router) {
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
		Nome:  query.Get("nome"),
		Email: query.Get("email"),
		Page:  filter.ParsePage(query, h.pages),
	}

	h.logger.InfoContext(r.Context(), "listing alunos", "nome", f.Nome, "email", f.Email, "page", f.Page.Number)
	alunos, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao listar alunos")
		return
	}

	h.metrics.RecordListViewed(r.Context(), "alunos")

	httputil.RespondPage(w, alunos, filter.NewPagination(f.Page, total))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar aluno")
		return
	}

	aluno, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao buscar aluno")
		return
	}

	httputil.RespondData(w, http.StatusOK, "", aluno)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao criar aluno")
		return
	}

	h.logger.InfoContext(r.Context(), "creating aluno", "email", req.Email)
	aluno, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao criar aluno")
		return
	}

	h.metrics.RecordAlunoCreated(r.Context())

	httputil.RespondData(w, http.StatusCreated, MsgCreated, aluno)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar aluno")
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar aluno")
		return
	}

	h.logger.InfoContext(r.Context(), "updating aluno", "id", id)
	aluno, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao atualizar aluno")
		return
	}

	httputil.RespondData(w, http.StatusOK, MsgUpdated, aluno)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id", MsgNotFound)
	if err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao excluir aluno")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting aluno", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondError(w, r, h.logger, err, "Erro ao excluir aluno")
		return
	}

	h.metrics.RecordAlunoDeleted(r.Context())

	httputil.RespondMessage(w, http.StatusOK, MsgDeleted)
}
