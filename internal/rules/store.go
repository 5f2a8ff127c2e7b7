package rules

import (
	"context"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"

	"github.com/uptrace/bun"
)

// Store answers the questions the rules ask about active enrollments.
type Store interface {
	CountActiveByAluno(ctx context.Context, alunoID int64) (int, error)
	CountActiveByAreaCurso(ctx context.Context, areaCursoID int64) (int, error)
	ExistsActive(ctx context.Context, alunoID, areaCursoID int64) (bool, error)
}

type store struct {
	db        bun.IDB
	dbMetrics *metrics.DatabaseMetrics
}

// NewStore accepts a *bun.DB or a bun.Tx, so the checks can run inside the
// transaction that performs the write.
func NewStore(db bun.IDB, dbMetrics *metrics.DatabaseMetrics) Store {
	return &store{db: db, dbMetrics: dbMetrics}
}

func (s *store) active() *bun.SelectQuery {
	return s.db.NewSelect().
		Model((*model.Matricula)(nil)).
		Where("m.status = ?", model.StatusAtiva)
}

func (s *store) CountActiveByAluno(ctx context.Context, alunoID int64) (int, error) {
	start := time.Now()
	count, err := s.active().Where("m.aluno_id = ?", alunoID).Count(ctx)
	s.dbMetrics.RecordQuery(ctx, "count_active", "matriculas", time.Since(start), err)
	return count, err
}

func (s *store) CountActiveByAreaCurso(ctx context.Context, areaCursoID int64) (int, error) {
	start := time.Now()
	count, err := s.active().Where("m.area_curso_id = ?", areaCursoID).Count(ctx)
	s.dbMetrics.RecordQuery(ctx, "count_active", "matriculas", time.Since(start), err)
	return count, err
}

func (s *store) ExistsActive(ctx context.Context, alunoID, areaCursoID int64) (bool, error) {
	start := time.Now()
	exists, err := s.active().
		Where("m.aluno_id = ?", alunoID).
		Where("m.area_curso_id = ?", areaCursoID).
		Exists(ctx)
	s.dbMetrics.RecordQuery(ctx, "exists_active", "matriculas", time.Since(start), err)
	return exists, err
}
