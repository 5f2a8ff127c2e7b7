// Package rules holds the enrollment business rules: an aluno or área de curso
// with active matrículas cannot be deleted, and a pair can have at most one
// active matrícula. Status transitions are unrestricted.
package rules

import (
	"context"
	"fmt"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"
)

const (
	MsgAlunoHasActive     = "Não é possível excluir um aluno com matrículas ativas"
	MsgAreaCursoHasActive = "Não é possível excluir uma área de curso com matrículas ativas"
	MsgAlreadyEnrolled    = "Este aluno já possui uma matrícula ativa nesta área de curso"
)

type Engine struct {
	store   Store
	metrics *metrics.DomainMetrics
}

func NewEngine(store Store, domainMetrics *metrics.DomainMetrics) *Engine {
	return &Engine{store: store, metrics: domainMetrics}
}

// WithStore returns an Engine that queries store, typically one bound to a transaction.
func (e *Engine) WithStore(store Store) *Engine {
	return &Engine{store: store, metrics: e.metrics}
}

func (e *Engine) CheckAlunoDeletable(ctx context.Context, alunoID int64) error {
	count, err := e.store.CountActiveByAluno(ctx, alunoID)
	if err != nil {
		return fmt.Errorf("failed to count active matriculas: %w", err)
	}
	if count > 0 {
		e.metrics.RecordRuleViolation(ctx, "aluno_deletable")
		return apperr.Conflict(MsgAlunoHasActive)
	}
	return nil
}

func (e *Engine) CheckAreaCursoDeletable(ctx context.Context, areaCursoID int64) error {
	count, err := e.store.CountActiveByAreaCurso(ctx, areaCursoID)
	if err != nil {
		return fmt.Errorf("failed to count active matriculas: %w", err)
	}
	if count > 0 {
		e.metrics.RecordRuleViolation(ctx, "area_curso_deletable")
		return apperr.Conflict(MsgAreaCursoHasActive)
	}
	return nil
}

func (e *Engine) CheckEnrollable(ctx context.Context, alunoID, areaCursoID int64) error {
	exists, err := e.store.ExistsActive(ctx, alunoID, areaCursoID)
	if err != nil {
		return fmt.Errorf("failed to check active matricula: %w", err)
	}
	if exists {
		e.metrics.RecordRuleViolation(ctx, "enrollable")
		return AlreadyEnrolled()
	}
	return nil
}

// AlreadyEnrolled is the error for a second active matrícula of the same pair.
func AlreadyEnrolled() error {
	return apperr.Conflict(MsgAlreadyEnrolled)
}
