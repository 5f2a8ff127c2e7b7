package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type AreaCurso struct {
	bun.BaseModel `bun:"table:area_cursos,alias:ac"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Titulo    string    `bun:"titulo,notnull,unique,type:varchar(255)" json:"titulo"`
	Descricao *string   `bun:"descricao,type:varchar(1000)" json:"descricao"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Alunos     []*Aluno     `bun:"m2m:matriculas,join:AreaCurso=Aluno" json:"alunos,omitempty"`
	Matriculas []*Matricula `bun:"rel:has-many,join:id=area_curso_id" json:"matriculas,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*AreaCurso)(nil)

func (ac *AreaCurso) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	touchTimestamps(query, &ac.CreatedAt, &ac.UpdatedAt)
	return nil
}
