package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Matricula struct {
	bun.BaseModel `bun:"table:matriculas,alias:m"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	AlunoID       int64     `bun:"aluno_id,notnull" json:"aluno_id"`
	AreaCursoID   int64     `bun:"area_curso_id,notnull" json:"area_curso_id"`
	Status        Status    `bun:"status,notnull,type:varchar(20),default:'ativa'" json:"status"`
	DataMatricula time.Time `bun:"data_matricula,notnull,default:current_timestamp" json:"data_matricula"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Aluno     *Aluno     `bun:"rel:belongs-to,join:aluno_id=id" json:"aluno,omitempty"`
	AreaCurso *AreaCurso `bun:"rel:belongs-to,join:area_curso_id=id" json:"area_curso,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*Matricula)(nil)

func (m *Matricula) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	touchTimestamps(query, &m.CreatedAt, &m.UpdatedAt)
	return nil
}

// Models lists every table model for bun.DB.RegisterModel. Matricula comes first:
// it is the m2m join model of Aluno.AreaCursos and AreaCurso.Alunos and must be
// registered before either relation is resolved.
func Models() []any {
	return []any{(*Matricula)(nil), (*Aluno)(nil), (*AreaCurso)(nil)}
}
