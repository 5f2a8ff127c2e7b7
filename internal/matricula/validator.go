package matricula

import (
	"context"
	"fmt"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/validation"
)

// Validator applies the struct tags plus the existence checks on aluno_id and
// area_curso_id.
type Validator struct {
	base *validation.Validator
	repo Repository
	now  func() time.Time
}

func NewValidator(base *validation.Validator, repo Repository) *Validator {
	return &Validator{
		base: base,
		repo: repo,
		now:  time.Now,
	}
}

func (v *Validator) Create(ctx context.Context, req *CreateRequest) (*model.Matricula, error) {
	req.Status = validation.TrimOptional(req.Status)
	req.DataMatricula = validation.TrimOptional(req.DataMatricula)

	fields := v.base.Struct(req)
	if fields == nil {
		fields = apperr.FieldErrors{}
	}

	if req.AlunoID != nil {
		exists, err := v.repo.AlunoExists(ctx, *req.AlunoID)
		if err != nil {
			return nil, fmt.Errorf("failed to check aluno: %w", err)
		}
		if !exists {
			fields.Add("aluno_id", validation.MsgAlunoMissing)
		}
	}
	if req.AreaCursoID != nil {
		exists, err := v.repo.AreaCursoExists(ctx, *req.AreaCursoID)
		if err != nil {
			return nil, fmt.Errorf("failed to check area de curso: %w", err)
		}
		if !exists {
			fields.Add("area_curso_id", validation.MsgAreaMissing)
		}
	}

	dataMatricula := v.now().UTC().Truncate(time.Microsecond)
	if req.DataMatricula != nil {
		parsed, ok := validation.ParseTimestamp(*req.DataMatricula)
		if !ok {
			fields.Add("data_matricula", fmt.Sprintf(validation.MsgInvalidDate, "data_matricula"))
		}
		dataMatricula = parsed.Truncate(time.Microsecond)
	}

	if !fields.Empty() {
		return nil, apperr.Invalid(fields)
	}

	status := model.StatusAtiva
	if req.Status != nil {
		status = model.Status(*req.Status)
	}

	return &model.Matricula{
		AlunoID:       *req.AlunoID,
		AreaCursoID:   *req.AreaCursoID,
		Status:        status,
		DataMatricula: dataMatricula,
	}, nil
}

// Update applies req onto current and returns the changed columns.
func (v *Validator) Update(current *model.Matricula, req *UpdateRequest) ([]string, error) {
	validation.Trim(req.Status)
	validation.Trim(req.DataMatricula)

	fields := v.base.Struct(req)
	if fields == nil {
		fields = apperr.FieldErrors{}
	}

	var columns []string

	if req.Status != nil {
		current.Status = model.Status(*req.Status)
		columns = append(columns, "status")
	}

	if req.DataMatricula != nil {
		parsed, ok := validation.ParseTimestamp(*req.DataMatricula)
		if !ok {
			fields.Add("data_matricula", fmt.Sprintf(validation.MsgInvalidDate, "data_matricula"))
		}
		current.DataMatricula = parsed.Truncate(time.Microsecond)
		columns = append(columns, "data_matricula")
	}

	if !fields.Empty() {
		return nil, apperr.Invalid(fields)
	}
	return columns, nil
}
