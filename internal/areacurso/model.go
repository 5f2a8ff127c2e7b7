package areacurso

import (
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
)

const (
	MsgNotFound = "Área de curso não encontrada"
	MsgCreated  = "Área de curso criada com sucesso"
	MsgUpdated  = "Área de curso atualizada com sucesso"
	MsgDeleted  = "Área de curso excluída com sucesso"
)

type CreateRequest struct {
	Titulo    string  `json:"titulo" validate:"required,max=255"`
	Descricao *string `json:"descricao" validate:"omitnil,max=1000"`
}

// UpdateRequest leaves absent fields unchanged; descricao: null clears it.
type UpdateRequest struct {
	Titulo    *string                `json:"titulo" validate:"omitnil,max=255"`
	Descricao model.Nullable[string] `json:"descricao"`
}

type ListFilter struct {
	Titulo string
	Page   filter.Page
}
