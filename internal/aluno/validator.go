package aluno

import (
	"context"
	"fmt"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/validation"
)

// Validator applies the aluno rules: struct tags, unique email and a birth date before today.
type Validator struct {
	base *validation.Validator
	repo Repository
}

func NewValidator(base *validation.Validator, repo Repository) *Validator {
	return &Validator{base: base, repo: repo}
}

// Create normalizes req and returns the aluno to insert, or an InvalidInput error.
func (v *Validator) Create(ctx context.Context, req *CreateRequest) (*model.Aluno, error) {
	validation.Trim(&req.Nome)
	validation.Trim(&req.Email)

	fields := v.base.Struct(req)
	if fields == nil {
		fields = apperr.FieldErrors{}
	}

	aluno := &model.Aluno{Nome: req.Nome, Email: req.Email}

	if _, bad := fields["email"]; !bad {
		if err := v.checkEmail(ctx, fields, req.Email, 0); err != nil {
			return nil, err
		}
	}

	if raw := validation.TrimOptional(req.DataNascimento); raw != nil {
		aluno.DataNascimento = parseBirthDate(fields, *raw)
	}

	if !fields.Empty() {
		return nil, apperr.Invalid(fields)
	}
	return aluno, nil
}

// Update applies req onto current and returns the columns that changed.
func (v *Validator) Update(ctx context.Context, current *model.Aluno, req *UpdateRequest) ([]string, error) {
	validation.Trim(req.Nome)
	validation.Trim(req.Email)

	fields := v.base.Struct(req)
	if fields == nil {
		fields = apperr.FieldErrors{}
	}

	var columns []string

	if req.Nome != nil {
		if *req.Nome == "" {
			fields.Add("nome", "O campo nome é obrigatório.")
		}
		current.Nome = *req.Nome
		columns = append(columns, "nome")
	}

	if req.Email != nil {
		if *req.Email == "" {
			fields.Add("email", "O campo email é obrigatório.")
		}
		if _, bad := fields["email"]; !bad {
			if err := v.checkEmail(ctx, fields, *req.Email, current.ID); err != nil {
				return nil, err
			}
		}
		current.Email = *req.Email
		columns = append(columns, "email")
	}

	if req.DataNascimento.Set {
		current.DataNascimento = nil
		if raw := validation.TrimOptional(req.DataNascimento.Ptr()); raw != nil {
			current.DataNascimento = parseBirthDate(fields, *raw)
		}
		columns = append(columns, "data_nascimento")
	}

	if !fields.Empty() {
		return nil, apperr.Invalid(fields)
	}
	return columns, nil
}

func (v *Validator) checkEmail(ctx context.Context, fields apperr.FieldErrors, email string, exceptID int64) error {
	taken, err := v.repo.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		fields.Add("email", validation.MsgEmailTaken)
	}
	return nil
}

func parseBirthDate(fields apperr.FieldErrors, raw string) *model.Date {
	date, err := model.ParseDate(raw)
	if err != nil {
		fields.Add("data_nascimento", fmt.Sprintf(validation.MsgInvalidDate, "data_nascimento"))
		return nil
	}
	if !validation.BeforeToday(date) {
		fields.Add("data_nascimento", validation.MsgDateNotPast)
		return nil
	}
	return &date
}
