package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// ActiveEnrollmentIndex allows a single "ativa" matricula per (aluno, área) pair
// while keeping inactive and completed history rows.
const ActiveEnrollmentIndex = "matriculas_ativa_unique"

// RunMigrations creates the schema if it does not exist yet.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model       any
		foreignKeys []string
	}{
		{model: (*model.Aluno)(nil)},
		{model: (*model.AreaCurso)(nil)},
		{
			model: (*model.Matricula)(nil),
			foreignKeys: []string{
				`("aluno_id") REFERENCES "alunos" ("id") ON DELETE CASCADE`,
				`("area_curso_id") REFERENCES "area_cursos" ("id") ON DELETE CASCADE`,
			},
		},
	}

	for _, table := range tables {
		q := db.NewCreateTable().Model(table.model).IfNotExists()
		for _, fk := range table.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for model %T: %w", table.model, err)
		}
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + ActiveEnrollmentIndex +
			` ON matriculas (aluno_id, area_curso_id) WHERE status = 'ativa'`,
		`CREATE INDEX IF NOT EXISTS matriculas_aluno_id_idx ON matriculas (aluno_id)`,
		`CREATE INDEX IF NOT EXISTS matriculas_area_curso_id_idx ON matriculas (area_curso_id)`,
		`CREATE INDEX IF NOT EXISTS matriculas_data_matricula_idx ON matriculas (data_matricula)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	slog.InfoContext(ctx, "database migrations completed successfully")
	return nil
}

// Tables lists the schema tables, children first, for truncation in tests.
func Tables() []string {
	return []string{"matriculas", "area_cursos", "alunos"}
}

// ResetTables removes every row and restarts ids. Intended for tests and seeding.
func ResetTables(ctx context.Context, db *bun.DB) error {
	for _, table := range Tables() {
		var err error
		if db.Dialect().Name() == dialect.PG {
			_, err = db.ExecContext(ctx, "TRUNCATE "+table+" RESTART IDENTITY CASCADE")
		} else {
			_, err = db.ExecContext(ctx, "DELETE FROM "+table)
			if err == nil {
				// sqlite_sequence only exists once an AUTOINCREMENT table received a row.
				_, _ = db.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table)
			}
		}
		if err != nil {
			return fmt.Errorf("failed to reset table %s: %w", table, err)
		}
	}
	return nil
}
