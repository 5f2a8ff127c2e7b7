package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Aluno struct {
	bun.BaseModel `bun:"table:alunos,alias:a"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Nome           string    `bun:"nome,notnull,type:varchar(255)" json:"nome"`
	Email          string    `bun:"email,notnull,unique,type:varchar(255)" json:"email"`
	DataNascimento *Date     `bun:"data_nascimento,type:date" json:"data_nascimento"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	AreaCursos []*AreaCurso `bun:"m2m:matriculas,join:Aluno=AreaCurso" json:"area_cursos,omitempty"`
	Matriculas []*Matricula `bun:"rel:has-many,join:id=aluno_id" json:"matriculas,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*Aluno)(nil)

func (a *Aluno) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	touchTimestamps(query, &a.CreatedAt, &a.UpdatedAt)
	return nil
}

// touchTimestamps keeps created_at/updated_at in UTC microseconds so both
// dialects round-trip them identically.
func touchTimestamps(query bun.Query, createdAt, updatedAt *time.Time) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	switch query.(type) {
	case *bun.InsertQuery:
		if createdAt.IsZero() {
			*createdAt = now
		}
		*updatedAt = now
	case *bun.UpdateQuery:
		*updatedAt = now
	}
}
