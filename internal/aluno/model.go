package aluno

import (
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
)

const (
	MsgNotFound = "Aluno não encontrado"
	MsgCreated  = "Aluno criado com sucesso"
	MsgUpdated  = "Aluno atualizado com sucesso"
	MsgDeleted  = "Aluno excluído com sucesso"
)

// CreateRequest is the POST /alunos payload. data_nascimento stays a string
// until validation so a malformed date becomes a field error.
type CreateRequest struct {
	Nome           string  `json:"nome" validate:"required,max=255"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	DataNascimento *string `json:"data_nascimento"`
}

// UpdateRequest is the PUT/PATCH payload. Absent fields are left unchanged;
// data_nascimento: null clears the date.
type UpdateRequest struct {
	Nome           *string                `json:"nome" validate:"omitnil,max=255"`
	Email          *string                `json:"email" validate:"omitnil,email,max=255"`
	DataNascimento model.Nullable[string] `json:"data_nascimento"`
}

type ListFilter struct {
	Nome  string
	Email string
	Page  filter.Page
}
