package matricula

import (
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
)

const (
	MsgNotFound = "Matrícula não encontrada"
	MsgCreated  = "Matrícula criada com sucesso"
	MsgUpdated  = "Matrícula atualizada com sucesso"
	MsgDeleted  = "Matrícula excluída com sucesso"
)

// CreateRequest carries ids as pointers so a missing id is told apart from 0.
type CreateRequest struct {
	AlunoID       *int64  `json:"aluno_id" validate:"required"`
	AreaCursoID   *int64  `json:"area_curso_id" validate:"required"`
	Status        *string `json:"status" validate:"omitnil,oneof=ativa inativa concluida"`
	DataMatricula *string `json:"data_matricula"`
}

// UpdateRequest only touches status and data_matricula.
type UpdateRequest struct {
	Status        *string `json:"status" validate:"omitnil,oneof=ativa inativa concluida"`
	DataMatricula *string `json:"data_matricula"`
}

type ListFilter struct {
	Status string
	Page   filter.Page
}

type AlunoMatriculas struct {
	Aluno      *model.Aluno      `json:"aluno"`
	Matriculas []model.Matricula `json:"matriculas"`
	Total      int               `json:"total"`
}

type AreaCursoMatriculas struct {
	AreaCurso  *model.AreaCurso  `json:"area_curso"`
	Matriculas []model.Matricula `json:"matriculas"`
	Total      int               `json:"total"`
}
