package areacurso

import (
	"context"
	"log/slog"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/db"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/messaging"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/rules"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/validation"
)

type Service interface {
	List(ctx context.Context, f ListFilter) ([]model.AreaCurso, int, error)
	Get(ctx context.Context, id int64) (*model.AreaCurso, error)
	Create(ctx context.Context, req CreateRequest) (*model.AreaCurso, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*model.AreaCurso, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo      Repository
	validator *Validator
	rules     *rules.Engine
	publisher messaging.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, validator *Validator, engine *rules.Engine, publisher messaging.Publisher, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		validator: validator,
		rules:     engine,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *service) List(ctx context.Context, f ListFilter) ([]model.AreaCurso, int, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Get(ctx context.Context, id int64) (*model.AreaCurso, error) {
	return s.repo.GetWithRelations(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*model.AreaCurso, error) {
	area, err := s.validator.Create(ctx, &req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, area); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.InvalidField("titulo", validation.MsgTituloTaken)
		}
		return nil, err
	}

	messaging.Emit(ctx, s.publisher, s.logger, messaging.NewEvent(messaging.AreaCursoCriada, area.ID, area))
	return area, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*model.AreaCurso, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	columns, err := s.validator.Update(ctx, current, &req)
	if err != nil {
		return nil, err
	}

	if len(columns) > 0 {
		if err := s.repo.Update(ctx, current, columns...); err != nil {
			if db.IsUniqueViolation(err) {
				return nil, apperr.InvalidField("titulo", validation.MsgTituloTaken)
			}
			return nil, err
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	messaging.Emit(ctx, s.publisher, s.logger, messaging.NewEvent(messaging.AreaCursoAtualizada, updated.ID, updated))
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.rules.CheckAreaCursoDeletable(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	messaging.Emit(ctx, s.publisher, s.logger, messaging.NewEvent(messaging.AreaCursoExcluida, id, map[string]int64{"id": id}))
	return nil
}
