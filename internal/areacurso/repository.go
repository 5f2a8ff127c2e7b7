package areacurso

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"

	"github.com/uptrace/bun"
)

const table = "area_cursos"

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]model.AreaCurso, int, error)
	GetByID(ctx context.Context, id int64) (*model.AreaCurso, error)
	GetWithRelations(ctx context.Context, id int64) (*model.AreaCurso, error)
	TituloTaken(ctx context.Context, titulo string, exceptID int64) (bool, error)
	Create(ctx context.Context, area *model.AreaCurso) error
	Update(ctx context.Context, area *model.AreaCurso, columns ...string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db        *bun.DB
	dbMetrics *metrics.DatabaseMetrics
}

func NewRepository(db *bun.DB, dbMetrics *metrics.DatabaseMetrics) Repository {
	return &repository{
		db:        db,
		dbMetrics: dbMetrics,
	}
}

func orderAlunos(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("a.nome ASC")
}

func orderMatriculas(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("m.data_matricula DESC")
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]model.AreaCurso, int, error) {
	start := time.Now()
	areas := make([]model.AreaCurso, 0)

	q := r.db.NewSelect().
		Model(&areas).
		Relation("Alunos", orderAlunos).
		Relation("Matriculas", orderMatriculas)
	q = filter.Contains(q, "ac.titulo", f.Titulo)
	q = f.Page.Apply(q.Order("ac.titulo ASC", "ac.id ASC"))

	total, err := q.ScanAndCount(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, 0, err
	}
	return areas, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*model.AreaCurso, error) {
	return r.get(ctx, id, false)
}

// GetWithRelations loads the alunos and each matricula with its aluno.
func (r *repository) GetWithRelations(ctx context.Context, id int64) (*model.AreaCurso, error) {
	return r.get(ctx, id, true)
}

func (r *repository) get(ctx context.Context, id int64, relations bool) (*model.AreaCurso, error) {
	start := time.Now()
	area := new(model.AreaCurso)

	q := r.db.NewSelect().Model(area).Where("ac.id = ?", id)
	if relations {
		q = q.Relation("Alunos", orderAlunos).
			Relation("Matriculas", orderMatriculas).
			Relation("Matriculas.Aluno")
	}
	err := q.Scan(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(MsgNotFound)
		}
		return nil, err
	}
	return area, nil
}

// TituloTaken reports whether another área uses titulo, ignoring case.
func (r *repository) TituloTaken(ctx context.Context, titulo string, exceptID int64) (bool, error) {
	start := time.Now()

	q := r.db.NewSelect().Model((*model.AreaCurso)(nil)).Where("LOWER(ac.titulo) = LOWER(?)", titulo)
	if exceptID > 0 {
		q = q.Where("ac.id <> ?", exceptID)
	}
	exists, err := q.Exists(ctx)

	r.dbMetrics.RecordQuery(ctx, "exists", table, time.Since(start), err)

	return exists, err
}

func (r *repository) Create(ctx context.Context, area *model.AreaCurso) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(area).Returning("*").Exec(ctx)

	r.dbMetrics.RecordQuery(ctx, "insert", table, time.Since(start), err)

	return err
}

func (r *repository) Update(ctx context.Context, area *model.AreaCurso, columns ...string) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(area).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)

	r.dbMetrics.RecordQuery(ctx, "update", table, time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperr.NotFound(MsgNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := r.db.NewDelete().Model(&model.AreaCurso{ID: id}).WherePK().Exec(ctx)

	r.dbMetrics.RecordQuery(ctx, "delete", table, time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperr.NotFound(MsgNotFound)
	}
	return nil
}
