// Package docs serves the API index and the endpoint reference under /api.
package docs

import (
	"net/http"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/httputil"

	"github.com/go-chi/chi/v5"
)

const (
	APIName     = "Plataforma de Ensino - Atividade de Revisão"
	Description = "API REST para gerenciar alunos, áreas de cursos e matrículas"
	perPageHelp = "Quantidade de registros por página (padrão: 10)"
)

type Index struct {
	API         string    `json:"api"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Endpoints   Endpoints `json:"endpoints"`
}

type Endpoints struct {
	Alunos       string `json:"alunos"`
	AreasCursos  string `json:"areas_cursos"`
	Matriculas   string `json:"matriculas"`
	Documentacao string `json:"documentacao"`
}

// Reference is the /api/docs payload. Route maps are keyed by "METHOD path".
type Reference struct {
	APIDocumentation map[string]map[string]string `json:"api_documentation"`
	ParametrosBusca  map[string]map[string]string `json:"parametros_busca"`
	Exemplos         map[string]Example           `json:"exemplos"`
}

type Example struct {
	Method string         `json:"method"`
	URL    string         `json:"url"`
	Body   map[string]any `json:"body"`
}

type Handler struct {
	version string
}

func NewHandler(version string) *Handler {
	return &Handler{version: version}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/docs", h.Docs)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, Index{
		API:         APIName,
		Version:     h.version,
		Description: Description,
		Endpoints: Endpoints{
			Alunos:       "/api/alunos",
			AreasCursos:  "/api/areas-cursos",
			Matriculas:   "/api/matriculas",
			Documentacao: "/api/docs",
		},
	})
}

func (h *Handler) Docs(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, reference)
}

var reference = Reference{
	APIDocumentation: map[string]map[string]string{
		"alunos": {
			"GET /api/alunos":         "Listar todos os alunos (com busca por nome e email)",
			"GET /api/alunos/{id}":    "Buscar aluno específico por ID",
			"POST /api/alunos":        "Criar novo aluno",
			"PUT /api/alunos/{id}":    "Atualizar aluno existente",
			"DELETE /api/alunos/{id}": "Excluir aluno",
		},
		"areas_cursos": {
			"GET /api/areas-cursos":         "Listar todas as áreas de cursos",
			"GET /api/areas-cursos/{id}":    "Buscar área de curso específica por ID",
			"POST /api/areas-cursos":        "Criar nova área de curso",
			"PUT /api/areas-cursos/{id}":    "Atualizar área de curso existente",
			"DELETE /api/areas-cursos/{id}": "Excluir área de curso",
		},
		"matriculas": {
			"GET /api/matriculas":                 "Listar todas as matrículas",
			"GET /api/matriculas/{id}":            "Buscar matrícula específica por ID",
			"POST /api/matriculas":                "Criar nova matrícula",
			"PUT /api/matriculas/{id}":            "Atualizar matrícula existente",
			"DELETE /api/matriculas/{id}":         "Excluir matrícula",
			"GET /api/matriculas/aluno/{id}":      "Listar matrículas de um aluno",
			"GET /api/matriculas/area-curso/{id}": "Listar matrículas de uma área de curso",
		},
	},
	ParametrosBusca: map[string]map[string]string{
		"alunos": {
			"nome":     "Busca parcial por nome do aluno",
			"email":    "Busca parcial por email do aluno",
			"per_page": perPageHelp,
		},
		"areas_cursos": {
			"titulo":   "Busca parcial por título da área de curso",
			"per_page": perPageHelp,
		},
		"matriculas": {
			"status":   "Filtrar por status (ativa, inativa, concluida)",
			"per_page": perPageHelp,
		},
	},
	Exemplos: map[string]Example{
		"criar_aluno": {
			Method: http.MethodPost,
			URL:    "/api/alunos",
			Body: map[string]any{
				"nome":            "João Silva",
				"email":           "joao@email.com",
				"data_nascimento": "1995-05-15",
			},
		},
		"criar_area_curso": {
			Method: http.MethodPost,
			URL:    "/api/areas-cursos",
			Body: map[string]any{
				"titulo":    "Biologia",
				"descricao": "Curso completo de Biologia",
			},
		},
		"criar_matricula": {
			Method: http.MethodPost,
			URL:    "/api/matriculas",
			Body: map[string]any{
				"aluno_id":      1,
				"area_curso_id": 1,
				"status":        "ativa",
			},
		},
	},
}
