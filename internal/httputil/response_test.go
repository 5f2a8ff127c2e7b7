package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "not found",
			err:          apperr.NotFound("Aluno não encontrado"),
			expectedCode: http.StatusNotFound,
			expectedBody: `{"success":false,"message":"Aluno não encontrado"}`,
		},
		{
			name:         "invalid input",
			err:          apperr.InvalidField("email", "O email já está sendo utilizado."),
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"success":false,"message":"Dados inválidos","errors":{"email":["O email já está sendo utilizado."]}}`,
		},
		{
			name:         "wrapped conflict",
			err:          fmt.Errorf("delete: %w", apperr.Conflict("Não é possível excluir um aluno com matrículas ativas")),
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"success":false,"message":"Não é possível excluir um aluno com matrículas ativas"}`,
		},
		{
			name:         "internal",
			err:          errors.New("connection refused"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"success":false,"message":"Erro ao criar aluno","error":"connection refused"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/alunos", nil)

			RespondError(rec, req, logger.Discard(), tt.err, "Erro ao criar aluno")

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}

func TestRespondPage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondPage(rec, []string{}, filter.NewPagination(filter.Page{Number: 1, PerPage: 10}, 0))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[],"pagination":{"current_page":1,"total":0,"per_page":10,"last_page":1}}`, rec.Body.String())
}

func TestRespondMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondMessage(rec, http.StatusOK, "Aluno excluído com sucesso")
	assert.JSONEq(t, `{"success":true,"message":"Aluno excluído com sucesso"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondMessage(rec, http.StatusTooManyRequests, "Muitas requisições")
	assert.JSONEq(t, `{"success":false,"message":"Muitas requisições"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var payload struct {
		Nome string `json:"nome"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"Ana"}`))
	require.NoError(t, DecodeJSON(req, &payload))
	assert.Equal(t, "Ana", payload.Nome)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, DecodeJSON(req, &payload))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":`))
	err := DecodeJSON(req, &payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "body")
}

func TestDecodeJSON_TypeMismatchNamesField(t *testing.T) {
	var payload struct {
		AlunoID int64 `json:"aluno_id"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"aluno_id":"1"}`))
	err := DecodeJSON(req, &payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{"O campo aluno_id possui um tipo inválido."}, appErr.Fields["aluno_id"])
	assert.NotContains(t, appErr.Fields, "body")
}

func TestPathID(t *testing.T) {
	router := chi.NewRouter()
	var gotID int64
	var gotErr error
	router.Get("/alunos/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotID, gotErr = PathID(r, "id", "Aluno não encontrado")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/alunos/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, int64(42), gotID)

	for _, raw := range []string{"abc", "0", "-1"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/alunos/"+raw, nil))
		assert.ErrorIs(t, gotErr, apperr.ErrNotFound, raw)
	}
}
