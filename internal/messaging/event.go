// Package messaging publishes domain events after successful writes.
// Publishing is best effort: a failed publish is logged and never fails the request.
package messaging

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	AlunoCriado     = "aluno.criado"
	AlunoAtualizado = "aluno.atualizado"
	AlunoExcluido   = "aluno.excluido"

	AreaCursoCriada     = "area_curso.criada"
	AreaCursoAtualizada = "area_curso.atualizada"
	AreaCursoExcluida   = "area_curso.excluida"

	MatriculaCriada     = "matricula.criada"
	MatriculaAtualizada = "matricula.atualizada"
	MatriculaExcluida   = "matricula.excluida"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`

	// Key is the entity id, used as the Kafka partition key.
	Key string `json:"-"`
}

func NewEvent(eventType string, entityID int64, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
		Key:        strconv.FormatInt(entityID, 10),
	}
}
