package matricula

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/aluno"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/areacurso"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/metrics"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/rules"

	"github.com/uptrace/bun"
)

const table = "matriculas"

// Repository also answers the rule engine's questions so a transaction-bound
// repository can back the active-duplicate check.
type Repository interface {
	rules.Store

	List(ctx context.Context, f ListFilter) ([]model.Matricula, int, error)
	GetByID(ctx context.Context, id int64) (*model.Matricula, error)
	GetWithRelations(ctx context.Context, id int64) (*model.Matricula, error)
	ListByAluno(ctx context.Context, alunoID int64) ([]model.Matricula, error)
	ListByAreaCurso(ctx context.Context, areaCursoID int64) ([]model.Matricula, error)

	AlunoExists(ctx context.Context, id int64) (bool, error)
	AreaCursoExists(ctx context.Context, id int64) (bool, error)
	GetAluno(ctx context.Context, id int64) (*model.Aluno, error)
	GetAreaCurso(ctx context.Context, id int64) (*model.AreaCurso, error)

	Create(ctx context.Context, m *model.Matricula) error
	Update(ctx context.Context, m *model.Matricula, columns ...string) error
	Delete(ctx context.Context, id int64) error

	// RunInTx runs fn with a repository bound to a single transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
}

type repository struct {
	rules.Store

	db        bun.IDB
	root      *bun.DB // nil inside a transaction
	dbMetrics *metrics.DatabaseMetrics
}

func NewRepository(db *bun.DB, dbMetrics *metrics.DatabaseMetrics) Repository {
	return &repository{
		Store:     rules.NewStore(db, dbMetrics),
		db:        db,
		root:      db,
		dbMetrics: dbMetrics,
	}
}

func (r *repository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	if r.root == nil {
		return fn(ctx, r)
	}
	return r.root.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &repository{
			Store:     rules.NewStore(tx, r.dbMetrics),
			db:        tx,
			dbMetrics: r.dbMetrics,
		})
	})
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]model.Matricula, int, error) {
	start := time.Now()
	matriculas := make([]model.Matricula, 0)

	q := r.db.NewSelect().
		Model(&matriculas).
		Relation("Aluno").
		Relation("AreaCurso")
	q = filter.Equals(q, "m.status", f.Status)
	q = f.Page.Apply(q.Order("m.data_matricula DESC", "m.id DESC"))

	total, err := q.ScanAndCount(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, 0, err
	}
	return matriculas, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*model.Matricula, error) {
	return r.get(ctx, id, false)
}

// GetWithRelations loads the aluno and the área de curso.
func (r *repository) GetWithRelations(ctx context.Context, id int64) (*model.Matricula, error) {
	return r.get(ctx, id, true)
}

func (r *repository) get(ctx context.Context, id int64, relations bool) (*model.Matricula, error) {
	start := time.Now()
	m := new(model.Matricula)

	q := r.db.NewSelect().Model(m).Where("m.id = ?", id)
	if relations {
		q = q.Relation("Aluno").Relation("AreaCurso")
	}
	err := q.Scan(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(MsgNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (r *repository) ListByAluno(ctx context.Context, alunoID int64) ([]model.Matricula, error) {
	return r.listBy(ctx, "m.aluno_id", alunoID, "AreaCurso")
}

func (r *repository) ListByAreaCurso(ctx context.Context, areaCursoID int64) ([]model.Matricula, error) {
	return r.listBy(ctx, "m.area_curso_id", areaCursoID, "Aluno")
}

func (r *repository) listBy(ctx context.Context, column string, id int64, relation string) ([]model.Matricula, error) {
	start := time.Now()
	matriculas := make([]model.Matricula, 0)

	err := r.db.NewSelect().
		Model(&matriculas).
		Relation(relation).
		Where("? = ?", bun.Ident(column), id).
		Order("m.data_matricula DESC", "m.id DESC").
		Scan(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return matriculas, nil
}

func (r *repository) AlunoExists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*model.Aluno)(nil)).Where("a.id = ?", id).Exists(ctx)
	r.dbMetrics.RecordQuery(ctx, "exists", "alunos", time.Since(start), err)
	return exists, err
}

func (r *repository) AreaCursoExists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*model.AreaCurso)(nil)).Where("ac.id = ?", id).Exists(ctx)
	r.dbMetrics.RecordQuery(ctx, "exists", "area_cursos", time.Since(start), err)
	return exists, err
}

func (r *repository) GetAluno(ctx context.Context, id int64) (*model.Aluno, error) {
	start := time.Now()
	a := new(model.Aluno)
	err := r.db.NewSelect().Model(a).Where("a.id = ?", id).Scan(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", "alunos", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(aluno.MsgNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (r *repository) GetAreaCurso(ctx context.Context, id int64) (*model.AreaCurso, error) {
	start := time.Now()
	ac := new(model.AreaCurso)
	err := r.db.NewSelect().Model(ac).Where("ac.id = ?", id).Scan(ctx)

	r.dbMetrics.RecordQuery(ctx, "select", "area_cursos", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(areacurso.MsgNotFound)
		}
		return nil, err
	}
	return ac, nil
}

func (r *repository) Create(ctx context.Context, m *model.Matricula) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(m).Returning("*").Exec(ctx)

	r.dbMetrics.RecordQuery(ctx, "insert", table, time.Since(start), err)

	return err
}

func (r *repository) Update(ctx context.Context, m *model.Matricula, columns ...string) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(m).
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
	result, err := r.db.NewDelete().Model(&model.Matricula{ID: id}).WherePK().Exec(ctx)

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
