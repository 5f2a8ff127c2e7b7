package areacurso_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/areacurso"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/logger"
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

	repo := areacurso.NewRepository(database, m.Database)
	engine := rules.NewEngine(rules.NewStore(database, m.Database), m.Domain)
	service := areacurso.NewService(repo, areacurso.NewValidator(validation.New(), repo), engine, publisher, log)
	handler := areacurso.NewHandler(service, filter.DefaultPageDefaults, log, m.Domain)

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

func (env *testEnv) insertArea(t *testing.T, titulo string) *model.AreaCurso {
	t.Helper()
	a := &model.AreaCurso{Titulo: titulo}
	_, err := env.db.NewInsert().Model(a).Exec(context.Background())
	require.NoError(t, err)
	return a
}

func (env *testEnv) enroll(t *testing.T, areaCursoID int64, nome string, status model.Status) {
	t.Helper()
	ctx := context.Background()

	a := &model.Aluno{Nome: nome, Email: fmt.Sprintf("aluno%d@email.com", time.Now().UnixNano())}
	_, err := env.db.NewInsert().Model(a).Exec(ctx)
	require.NoError(t, err)

	_, err = env.db.NewInsert().Model(&model.Matricula{
		AlunoID:       a.ID,
		AreaCursoID:   areaCursoID,
		Status:        status,
		DataMatricula: time.Now().UTC(),
	}).Exec(ctx)
	require.NoError(t, err)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestAreaCursoHandler(t *testing.T) {
	env := setupTest(t, testdb.NewSQLite(t))
	runAreaCursoSuite(t, env)
}

// runAreaCursoSuite is shared with the Postgres integration test.
func runAreaCursoSuite(t *testing.T, env *testEnv) {
	reset := func(t *testing.T) {
		t.Helper()
		_, err := env.db.NewDelete().Model((*model.Matricula)(nil)).Where("1 = 1").Exec(context.Background())
		require.NoError(t, err)
		_, err = env.db.NewDelete().Model((*model.AreaCurso)(nil)).Where("1 = 1").Exec(context.Background())
		require.NoError(t, err)
		_, err = env.db.NewDelete().Model((*model.Aluno)(nil)).Where("1 = 1").Exec(context.Background())
		require.NoError(t, err)
	}

	t.Run("Create_RoundTrip", func(t *testing.T) {
		reset(t)

		w, resp := env.do(t, http.MethodPost, "/api/areas-cursos", map[string]any{
			"titulo":    "Matemática",
			"descricao": "Curso de Matemática Básica e Avançada",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, areacurso.MsgCreated, resp.Message)

		created := decode[model.AreaCurso](t, resp.Data)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "Matemática", created.Titulo)
		require.NotNil(t, created.Descricao)
		assert.Equal(t, "Curso de Matemática Básica e Avançada", *created.Descricao)

		w, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/areas-cursos/%d", created.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		fetched := decode[model.AreaCurso](t, resp.Data)
		assert.Equal(t, created.Titulo, fetched.Titulo)

		assert.Contains(t, env.publisher.Types(), messaging.AreaCursoCriada)
	})

	t.Run("Create_WithoutDescricao", func(t *testing.T) {
		reset(t)

		w, resp := env.do(t, http.MethodPost, "/api/areas-cursos", map[string]any{"titulo": "Física"})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Nil(t, decode[model.AreaCurso](t, resp.Data).Descricao)
	})

	t.Run("Create_DuplicateTitulo", func(t *testing.T) {
		reset(t)
		env.insertArea(t, "Física")

		w, resp := env.do(t, http.MethodPost, "/api/areas-cursos", map[string]any{"titulo": "Física"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{validation.MsgTituloTaken}, resp.Errors["titulo"])
	})

	t.Run("Create_DuplicateTituloIgnoresCase", func(t *testing.T) {
		reset(t)
		env.insertArea(t, "Física")

		w, resp := env.do(t, http.MethodPost, "/api/areas-cursos", map[string]any{"titulo": "física"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{validation.MsgTituloTaken}, resp.Errors["titulo"])
	})

	t.Run("Create_MissingTitulo", func(t *testing.T) {
		reset(t)

		w, resp := env.do(t, http.MethodPost, "/api/areas-cursos", map[string]any{"descricao": "sem título"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{"O campo titulo é obrigatório."}, resp.Errors["titulo"])
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		reset(t)

		w, resp := env.do(t, http.MethodGet, "/api/areas-cursos/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, areacurso.MsgNotFound, resp.Message)
	})

	t.Run("Get_WithRelations", func(t *testing.T) {
		reset(t)
		area := env.insertArea(t, "Química")
		env.enroll(t, area.ID, "Beatriz", model.StatusAtiva)
		env.enroll(t, area.ID, "Ana", model.StatusConcluida)

		_, resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/areas-cursos/%d", area.ID), nil)

		fetched := decode[model.AreaCurso](t, resp.Data)
		require.Len(t, fetched.Alunos, 2)
		assert.Equal(t, "Ana", fetched.Alunos[0].Nome)
		require.Len(t, fetched.Matriculas, 2)
		for _, m := range fetched.Matriculas {
			assert.NotNil(t, m.Aluno)
		}
	})

	t.Run("List_FilterByTitulo", func(t *testing.T) {
		reset(t)
		env.insertArea(t, "Matemática")
		env.insertArea(t, "Física")
		env.insertArea(t, "Matemática Aplicada")

		_, resp := env.do(t, http.MethodGet, "/api/areas-cursos?titulo=MATEM", nil)

		areas := decode[[]model.AreaCurso](t, resp.Data)
		require.Len(t, areas, 2)
		assert.Equal(t, "Matemática", areas[0].Titulo)
		assert.Equal(t, "Matemática Aplicada", areas[1].Titulo)
	})

	t.Run("List_OrderedByTitulo", func(t *testing.T) {
		reset(t)
		for _, titulo := range []string{"Química", "Biologia", "Física"} {
			env.insertArea(t, titulo)
		}

		_, resp := env.do(t, http.MethodGet, "/api/areas-cursos", nil)

		areas := decode[[]model.AreaCurso](t, resp.Data)
		require.Len(t, areas, 3)
		assert.Equal(t, "Biologia", areas[0].Titulo)
		assert.Equal(t, "Química", areas[2].Titulo)
		assert.Equal(t, 3, resp.Pagination.Total)
	})

	t.Run("Update_Partial", func(t *testing.T) {
		reset(t)
		area := env.insertArea(t, "História")
		path := fmt.Sprintf("/api/areas-cursos/%d", area.ID)

		w, resp := env.do(t, http.MethodPatch, path, map[string]any{"descricao": "Estudo dos eventos históricos"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, areacurso.MsgUpdated, resp.Message)

		updated := decode[model.AreaCurso](t, resp.Data)
		assert.Equal(t, "História", updated.Titulo)
		require.NotNil(t, updated.Descricao)

		_, resp = env.do(t, http.MethodPut, path, `{"descricao":null}`)
		assert.Nil(t, decode[model.AreaCurso](t, resp.Data).Descricao)
	})

	t.Run("Update_TituloTakenByOther", func(t *testing.T) {
		reset(t)
		env.insertArea(t, "Física")
		area := env.insertArea(t, "Biologia")

		w, resp := env.do(t, http.MethodPut, fmt.Sprintf("/api/areas-cursos/%d", area.ID), map[string]any{"titulo": "Física"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{validation.MsgTituloTaken}, resp.Errors["titulo"])
	})

	t.Run("Delete_BlockedByActiveEnrollment", func(t *testing.T) {
		reset(t)
		area := env.insertArea(t, "Física")
		env.enroll(t, area.ID, "Ana", model.StatusAtiva)

		w, resp := env.do(t, http.MethodDelete, fmt.Sprintf("/api/areas-cursos/%d", area.ID), nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, rules.MsgAreaCursoHasActive, resp.Message)
	})

	t.Run("Delete_Success", func(t *testing.T) {
		reset(t)
		area := env.insertArea(t, "Física")
		env.enroll(t, area.ID, "Ana", model.StatusInativa)

		w, _ := env.do(t, http.MethodDelete, fmt.Sprintf("/api/areas-cursos/%d", area.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Área de curso excluída com sucesso"}`, w.Body.String())

		w, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/areas-cursos/%d", area.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
