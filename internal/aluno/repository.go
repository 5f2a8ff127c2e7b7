package aluno

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

const table = "alunos"

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]model.Aluno, int, error)
	GetByID(ctx context.Context, id int64) (*model.Aluno, error)
	GetWithRelations(ctx context.Context, id int64) (*model.Aluno, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	Create(ctx context.Context, aluno *model.Aluno) error
	Update(ctx context.Context, aluno *model.Aluno, columns ...string) error
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

// withRelations loads the course areas and every matricula with its area.
func withRelations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("AreaCursos", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ac.titulo ASC")
		}).
		Relation("Matriculas", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("m.data_matricula DESC")
		}).
		Relation("Matriculas.AreaCurso")
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]model.Aluno, int, error) {
	start := time.Now()
	alunos := make([]model.Aluno, 0)

	q := withRelations(r.db.NewSelect().Model(&alunos))
	q = filter.Contains(q, "a.nome", f.Nome)
	q = filter.Contains(q, "a.email", f.Email)
	q = f.Page.Apply(q.Order("a.nome ASC", "a.id ASC"))

	total, err := q.ScanAndCount(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, 0, err
	}
	return alunos, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*model.Aluno, error) {
	return r.get(ctx, id, false)
}

func (r *repository) GetWithRelations(ctx context.Context, id int64) (*model.Aluno, error) {
	return r.get(ctx, id, true)
}

func (r *repository) get(ctx context.Context, id int64, relations bool) (*model.Aluno, error) {
	start := time.Now()
	aluno := new(model.Aluno)

	q := r.db.NewSelect().Model(aluno).Where("a.id = ?", id)
	if relations {
		q = withRelations(q)
	}
	err := q.Scan(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(MsgNotFound)
		}
		return nil, err
	}
	return aluno, nil
}

// EmailTaken reports whether another aluno (id != exceptID) uses email,
// ignoring case.
func (r *repository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	start := time.Now()

	q := r.db.NewSelect().Model((*model.Aluno)(nil)).Where("LOWER(a.email) = LOWER(?)", email)
	if exceptID > 0 {
		q = q.Where("a.id <> ?", exceptID)
	}
	exists, err := q.Exists(ctx)

	r.dbMetrics.RecordQuery(ctx, "exists", table, time.Since(start), err)

	return exists, err
}

func (r *repository) Create(ctx context.Context, aluno *model.Aluno) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(aluno).Returning("*").Exec(ctx)

	r.dbMetrics.RecordQuery(ctx, "insert", table, time.Since(start), err)

	return err
}

func (r *repository) Update(ctx context.Context, aluno *model.Aluno, columns ...string) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(aluno).
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
	result, err := r.db.NewDelete().Model(&model.Aluno{ID: id}).WherePK().Exec(ctx)

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
