package matricula_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/logger"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/matricula"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/messaging"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/rules"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/validation"
	"github.com/GustavoMarques22/plataforma-ensino-api/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Errors     map[string][]string `json:"errors"`
	Pagination *filter.Pagination  `json:"pagination"`
}

type testEnv struct {
	db        *bun.DB
	router    *chi.Mux
	publisher *messaging.MemoryPublisher
}

func setupTest(t *testing.T, database *bun.DB) *testEnv {
	t.Helper()

	m := metrics.NewMock()
	log := logger.Discard()
	publisher := messaging.NewMemoryPublisher()

	repo := matricula.NewRepository(database, m.Database)
	engine := rules.NewEngine(repo, m.Domain)
	service := matricula.NewService(repo, matricula.NewValidator(validation.New(), repo), engine, publisher, m.Domain, log)
	handler := matricula.NewHandler(service, filter.DefaultPageDefaults, log, m.Domain)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)

	return &testEnv{db: database, router: router, publisher: publisher}
}

func (env *testEnv) do(t *testing.T, method, path string, payload any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		switch p := payload.(type) {
		case string:
			body.WriteString(p)
		default:
			require.NoError(t, json.NewEncoder(&body).Encode(p))
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func (env *testEnv) insertAluno(t *testing.T, nome, email string) *model.Aluno {
	t.Helper()
	a := &model.Aluno{Nome: nome, Email: email}
	_, err := env.db.NewInsert().Model(a).Exec(context.Background())
	require.NoError(t, err)
	return a
}

func (env *testEnv) insertArea(t *testing.T, titulo string) *model.AreaCurso {
	t.Helper()
	ac := &model.AreaCurso{Titulo: titulo}
	_, err := env.db.NewInsert().Model(ac).Exec(context.Background())
	require.NoError(t, err)
	return ac
}

func (env *testEnv) insertMatricula(t *testing.T, alunoID, areaCursoID int64, status model.Status, date time.Time) *model.Matricula {
	t.Helper()
	m := &model.Matricula{AlunoID: alunoID, AreaCursoID: areaCursoID, Status: status, DataMatricula: date}
	_, err := env.db.NewInsert().Model(m).Exec(context.Background())
	require.NoError(t, err)
	return m
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 9, 0, 0, 0, time.UTC)
}

func TestMatriculaHandler(t *testing.T) {
	env := setupTest(t, testdb.NewSQLite(t))
	runMatriculaSuite(t, env)
}

// runMatriculaSuite is shared with the Postgres integration test.
func runMatriculaSuite(t *testing.T, env *testEnv) {
	reset := func(t *testing.T) {
		t.Helper()
		_, err := env.db.NewDelete().Model((*model.Matricula)(nil)).Where("1 = 1").Exec(context.Background())
		require.NoError(t, err)
		_, err = env.db.NewDelete().Model((*model.AreaCurso)(nil)).Where("1 = 1").Exec(context.Background())
		require.NoError(t, err)
		_, err = env.db.NewDelete().Model((*model.Aluno)(nil)).Where("1 = 1").Exec(context.Background())
		require.NoError(t, err)
	}

	t.Run("Create_DefaultsAndDuplicate", func(t *testing.T) {
		reset(t)
		ana := env.insertAluno(t, "Ana", "ana@x.com")
		fisica := env.insertArea(t, "Física")
		payload := map[string]any{"aluno_id": ana.ID, "area_curso_id": fisica.ID}

		before := time.Now().UTC().Add(-time.Second)
		w, resp := env.do(t, http.MethodPost, "/api/matriculas", payload)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, matricula.MsgCreated, resp.Message)

		created := decode[model.Matricula](t, resp.Data)
		assert.Equal(t, model.StatusAtiva, created.Status)
		assert.True(t, created.DataMatricula.After(before), created.DataMatricula)
		require.NotNil(t, created.Aluno)
		assert.Equal(t, "Ana", created.Aluno.Nome)
		require.NotNil(t, created.AreaCurso)
		assert.Equal(t, "Física", created.AreaCurso.Titulo)

		w, resp = env.do(t, http.MethodPost, "/api/matriculas", payload)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, rules.MsgAlreadyEnrolled, resp.Message)

		count, err := env.db.NewSelect().Model((*model.Matricula)(nil)).Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		assert.Contains(t, env.publisher.Types(), messaging.MatriculaCriada)
	})

	t.Run("Create_AfterDeactivation", func(t *testing.T) {
		reset(t)
		ana := env.insertAluno(t, "Ana", "ana@x.com")
		fisica := env.insertArea(t, "Física")
		first := env.insertMatricula(t, ana.ID, fisica.ID, model.StatusAtiva, day(1))

		w, _ := env.do(t, http.MethodPatch, fmt.Sprintf("/api/matriculas/%d", first.ID), map[string]any{"status": "concluida"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, resp := env.do(t, http.MethodPost, "/api/matriculas", map[string]any{"aluno_id": ana.ID, "area_curso_id": fisica.ID})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, model.StatusAtiva, decode[model.Matricula](t, resp.Data).Status)
	})

	t.Run("Create_ValidationErrors", func(t *testing.T) {
		reset(t)

		w, resp := env.do(t, http.MethodPost, "/api/matriculas", map[string]any{
			"aluno_id":       999,
			"status":         "trancada",
			"data_matricula": "amanhã",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "Dados inválidos", resp.Message)
		assert.Equal(t, []string{validation.MsgAlunoMissing}, resp.Errors["aluno_id"])
		assert.Contains(t, resp.Errors, "area_curso_id")
		assert.Equal(t, []string{validation.MsgStatusInvalid}, resp.Errors["status"])
		assert.Contains(t, resp.Errors, "data_matricula")
	})

	t.Run("Create_WrongFieldType", func(t *testing.T) {
		reset(t)

		w, resp := env.do(t, http.MethodPost, "/api/matriculas", `{"aluno_id":"1","area_curso_id":1}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "Dados inválidos", resp.Message)
		assert.Equal(t, []string{"O campo aluno_id possui um tipo inválido."}, resp.Errors["aluno_id"])
		assert.NotContains(t, resp.Errors, "body")
	})

	t.Run("Create_ExplicitDate", func(t *testing.T) {
		reset(t)
		a := env.insertAluno(t, "Pedro", "pedro@x.com")
		ac := env.insertArea(t, "Química")

		w, resp := env.do(t, http.MethodPost, "/api/matriculas", map[string]any{
			"aluno_id":       a.ID,
			"area_curso_id":  ac.ID,
			"status":         "inativa",
			"data_matricula": "2024-01-15 10:30:00",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created := decode[model.Matricula](t, resp.Data)
		assert.Equal(t, model.StatusInativa, created.Status)
		assert.True(t, created.DataMatricula.Equal(time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)), created.DataMatricula)
	})

	t.Run("List_FilterByStatus", func(t *testing.T) {
		reset(t)
		a := env.insertAluno(t, "Ana", "ana@x.com")
		b := env.insertAluno(t, "Bruno", "bruno@x.com")
		fisica := env.insertArea(t, "Física")
		quimica := env.insertArea(t, "Química")

		env.insertMatricula(t, a.ID, fisica.ID, model.StatusConcluida, day(3))
		env.insertMatricula(t, a.ID, quimica.ID, model.StatusAtiva, day(5))
		env.insertMatricula(t, b.ID, fisica.ID, model.StatusConcluida, day(9))

		w, resp := env.do(t, http.MethodGet, "/api/matriculas?status=concluida", nil)
		require.Equal(t, http.StatusOK, w.Code)

		matriculas := decode[[]model.Matricula](t, resp.Data)
		require.Len(t, matriculas, 2)
		assert.True(t, matriculas[0].DataMatricula.After(matriculas[1].DataMatricula))
		for _, m := range matriculas {
			assert.Equal(t, model.StatusConcluida, m.Status)
			assert.NotNil(t, m.Aluno)
			assert.NotNil(t, m.AreaCurso)
		}
		assert.Equal(t, 2, resp.Pagination.Total)

		_, resp = env.do(t, http.MethodGet, "/api/matriculas?status=trancada", nil)
		assert.Empty(t, decode[[]model.Matricula](t, resp.Data))
		assert.Equal(t, 0, resp.Pagination.Total)

		_, resp = env.do(t, http.MethodGet, "/api/matriculas?per_page=1", nil)
		assert.Equal(t, filter.Pagination{CurrentPage: 1, Total: 3, PerPage: 1, LastPage: 3}, *resp.Pagination)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		reset(t)

		w, resp := env.do(t, http.MethodGet, "/api/matriculas/77", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, matricula.MsgNotFound, resp.Message)
	})

	t.Run("Update_StatusAndDate", func(t *testing.T) {
		reset(t)
		a := env.insertAluno(t, "Ana", "ana@x.com")
		ac := env.insertArea(t, "Física")
		m := env.insertMatricula(t, a.ID, ac.ID, model.StatusAtiva, day(1))

		w, resp := env.do(t, http.MethodPut, fmt.Sprintf("/api/matriculas/%d", m.ID), map[string]any{
			"status":         "inativa",
			"data_matricula": "2024-03-01T12:00:00Z",
			"aluno_id":       12345,
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, matricula.MsgUpdated, resp.Message)

		updated := decode[model.Matricula](t, resp.Data)
		assert.Equal(t, model.StatusInativa, updated.Status)
		assert.Equal(t, a.ID, updated.AlunoID, "aluno_id is not updatable")
		assert.True(t, updated.DataMatricula.Equal(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)))
		assert.NotNil(t, updated.Aluno)
	})

	t.Run("Update_InvalidStatus", func(t *testing.T) {
		reset(t)
		a := env.insertAluno(t, "Ana", "ana@x.com")
		ac := env.insertArea(t, "Física")
		m := env.insertMatricula(t, a.ID, ac.ID, model.StatusAtiva, day(1))

		w, resp := env.do(t, http.MethodPatch, fmt.Sprintf("/api/matriculas/%d", m.ID), map[string]any{"status": "trancada"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{validation.MsgStatusInvalid}, resp.Errors["status"])
	})

	t.Run("Delete", func(t *testing.T) {
		reset(t)
		a := env.insertAluno(t, "Ana", "ana@x.com")
		ac := env.insertArea(t, "Física")
		m := env.insertMatricula(t, a.ID, ac.ID, model.StatusAtiva, day(1))
		path := fmt.Sprintf("/api/matriculas/%d", m.ID)

		w, _ := env.do(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Matrícula excluída com sucesso"}`, w.Body.String())

		w, _ = env.do(t, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ByAluno", func(t *testing.T) {
		reset(t)
		a := env.insertAluno(t, "Ana", "ana@x.com")
		fisica := env.insertArea(t, "Física")
		quimica := env.insertArea(t, "Química")
		env.insertMatricula(t, a.ID, fisica.ID, model.StatusConcluida, day(2))
		env.insertMatricula(t, a.ID, quimica.ID, model.StatusAtiva, day(8))

		w, resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/matriculas/aluno/%d", a.ID), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		result := decode[matricula.AlunoMatriculas](t, resp.Data)
		assert.Equal(t, a.ID, result.Aluno.ID)
		assert.Equal(t, 2, result.Total)
		require.Len(t, result.Matriculas, 2)
		require.NotNil(t, result.Matriculas[0].AreaCurso)
		assert.Equal(t, "Química", result.Matriculas[0].AreaCurso.Titulo)
		assert.Nil(t, result.Matriculas[0].Aluno)

		w, resp = env.do(t, http.MethodGet, "/api/matriculas/aluno/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Aluno não encontrado", resp.Message)
	})

	t.Run("ByAreaCurso", func(t *testing.T) {
		reset(t)
		a := env.insertAluno(t, "Ana", "ana@x.com")
		b := env.insertAluno(t, "Bruno", "bruno@x.com")
		fisica := env.insertArea(t, "Física")
		env.insertMatricula(t, a.ID, fisica.ID, model.StatusAtiva, day(4))
		env.insertMatricula(t, b.ID, fisica.ID, model.StatusAtiva, day(6))

		_, resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/matriculas/area-curso/%d", fisica.ID), nil)

		result := decode[matricula.AreaCursoMatriculas](t, resp.Data)
		assert.Equal(t, "Física", result.AreaCurso.Titulo)
		assert.Equal(t, 2, result.Total)
		require.NotNil(t, result.Matriculas[0].Aluno)
		assert.Equal(t, "Bruno", result.Matriculas[0].Aluno.Nome)

		w, resp := env.do(t, http.MethodGet, "/api/matriculas/area-curso/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Área de curso não encontrada", resp.Message)
	})

	t.Run("ByAluno_Empty", func(t *testing.T) {
		reset(t)
		a := env.insertAluno(t, "Ana", "ana@x.com")

		_, resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/matriculas/aluno/%d", a.ID), nil)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(resp.Data, &raw))
		assert.JSONEq(t, `[]`, string(raw["matriculas"]))
		assert.JSONEq(t, `0`, string(raw["total"]))
	})
}
