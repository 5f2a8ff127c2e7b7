package matricula

import (
	"context"
	"log/slog"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/db"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/messaging"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/rules"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/validation"
)

type Service interface {
	List(ctx context.Context, f ListFilter) ([]model.Matricula, int, error)
	Get(ctx context.Context, id int64) (*model.Matricula, error)
	Create(ctx context.Context, req CreateRequest) (*model.Matricula, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*model.Matricula, error)
	Delete(ctx context.Context, id int64) error
	ByAluno(ctx context.Context, alunoID int64) (*AlunoMatriculas, error)
	ByAreaCurso(ctx context.Context, areaCursoID int64) (*AreaCursoMatriculas, error)
}

type service struct {
	repo      Repository
	validator *Validator
	rules     *rules.Engine
	publisher messaging.Publisher
	metrics   *metrics.DomainMetrics
	logger    *slog.Logger
}

func NewService(repo Repository, validator *Validator, engine *rules.Engine, publisher messaging.Publisher, domainMetrics *metrics.DomainMetrics, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		validator: validator,
		rules:     engine,
		publisher: publisher,
		metrics:   domainMetrics,
		logger:    logger,
	}
}

func (s *service) List(ctx context.Context, f ListFilter) ([]model.Matricula, int, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Get(ctx context.Context, id int64) (*model.Matricula, error) {
	return s.repo.GetWithRelations(ctx, id)
}

// Create checks for an active matrícula of the same pair and inserts in one
// transaction. The partial unique index on active rows catches what the check
// cannot see.
func (s *service) Create(ctx context.Context, req CreateRequest) (*model.Matricula, error) {
	m, err := s.validator.Create(ctx, &req)
	if err != nil {
		return nil, err
	}

	err = s.repo.RunInTx(ctx, func(ctx context.Context, tx Repository) error {
		if err := s.rules.WithStore(tx).CheckEnrollable(ctx, m.AlunoID, m.AreaCursoID); err != nil {
			return err
		}
		return tx.Create(ctx, m)
	})
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			s.metrics.RecordRuleViolation(ctx, "enrollable")
			return nil, rules.AlreadyEnrolled()
		case db.IsForeignKeyViolation(err):
			return nil, apperr.Invalid(apperr.FieldErrors{
				"aluno_id":      {validation.MsgAlunoMissing},
				"area_curso_id": {validation.MsgAreaMissing},
			})
		}
		return nil, err
	}

	created, err := s.repo.GetWithRelations(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	messaging.Emit(ctx, s.publisher, s.logger, messaging.NewEvent(messaging.MatriculaCriada, created.ID, created))
	return created, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*model.Matricula, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := current.Status

	columns, err := s.validator.Update(current, &req)
	if err != nil {
		return nil, err
	}

	if len(columns) > 0 {
		if err := s.repo.Update(ctx, current, columns...); err != nil {
			if db.IsUniqueViolation(err) {
				return nil, rules.AlreadyEnrolled()
			}
			return nil, err
		}
	}

	if current.Status != previous {
		s.metrics.RecordStatusChange(ctx, string(previous), string(current.Status))
	}

	updated, err := s.repo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}

	messaging.Emit(ctx, s.publisher, s.logger, messaging.NewEvent(messaging.MatriculaAtualizada, updated.ID, updated))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	messaging.Emit(ctx, s.publisher, s.logger, messaging.NewEvent(messaging.MatriculaExcluida, id, map[string]int64{"id": id}))
	return nil
}

func (s *service) ByAluno(ctx context.Context, alunoID int64) (*AlunoMatriculas, error) {
	a, err := s.repo.GetAluno(ctx, alunoID)
	if err != nil {
		return nil, err
	}

	matriculas, err := s.repo.ListByAluno(ctx, alunoID)
	if err != nil {
		return nil, err
	}

	return &AlunoMatriculas{Aluno: a, Matriculas: matriculas, Total: len(matriculas)}, nil
}

func (s *service) ByAreaCurso(ctx context.Context, areaCursoID int64) (*AreaCursoMatriculas, error) {
	ac, err := s.repo.GetAreaCurso(ctx, areaCursoID)
	if err != nil {
		return nil, err
	}

	matriculas, err := s.repo.ListByAreaCurso(ctx, areaCursoID)
	if err != nil {
		return nil, err
	}

	return &AreaCursoMatriculas{AreaCurso: ac, Matriculas: matriculas, Total: len(matriculas)}, nil
}
