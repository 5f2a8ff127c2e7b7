package areacurso

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/validation"
)

const maxDescricao = 1000

// Validator applies the struct tags plus the unique titulo rule.
type Validator struct {
	base *validation.Validator
	repo Repository
}

func NewValidator(base *validation.Validator, repo Repository) *Validator {
	return &Validator{base: base, repo: repo}
}

func (v *Validator) Create(ctx context.Context, req *CreateRequest) (*model.AreaCurso, error) {
	validation.Trim(&req.Titulo)
	req.Descricao = validation.TrimOptional(req.Descricao)

	fields := v.base.Struct(req)
	if fields == nil {
		fields = apperr.FieldErrors{}
	}

	if _, bad := fields["titulo"]; !bad {
		if err := v.checkTitulo(ctx, fields, req.Titulo, 0); err != nil {
			return nil, err
		}
	}

	if !fields.Empty() {
		return nil, apperr.Invalid(fields)
	}
	return &model.AreaCurso{Titulo: req.Titulo, Descricao: req.Descricao}, nil
}

// Update applies req onto current and returns the changed columns.
func (v *Validator) Update(ctx context.Context, current *model.AreaCurso, req *UpdateRequest) ([]string, error) {
	validation.Trim(req.Titulo)

	fields := v.base.Struct(req)
	if fields == nil {
		fields = apperr.FieldErrors{}
	}

	// Nullable fields carry no validate tags.
	var descricao *string
	if req.Descricao.Set {
		descricao = validation.TrimOptional(req.Descricao.Ptr())
		if descricao != nil && utf8.RuneCountInString(*descricao) > maxDescricao {
			fields.Add("descricao", "O campo descricao não pode ser superior a 1000 caracteres.")
		}
	}

	var columns []string

	if req.Titulo != nil {
		if *req.Titulo == "" {
			fields.Add("titulo", "O campo titulo é obrigatório.")
		}
		if _, bad := fields["titulo"]; !bad {
			if err := v.checkTitulo(ctx, fields, *req.Titulo, current.ID); err != nil {
				return nil, err
			}
		}
		current.Titulo = *req.Titulo
		columns = append(columns, "titulo")
	}

	if req.Descricao.Set {
		current.Descricao = descricao
		columns = append(columns, "descricao")
	}

	if !fields.Empty() {
		return nil, apperr.Invalid(fields)
	}
	return columns, nil
}

func (v *Validator) checkTitulo(ctx context.Context, fields apperr.FieldErrors, titulo string, exceptID int64) error {
	taken, err := v.repo.TituloTaken(ctx, titulo, exceptID)
	if err != nil {
		return fmt.Errorf("failed to check titulo: %w", err)
	}
	if taken {
		fields.Add("titulo", validation.MsgTituloTaken)
	}
	return nil
}
