// Package seed loads the demo alunos, áreas de curso and matrículas.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"

	"github.com/uptrace/bun"
)

type alunoSeed struct {
	nome, email, nascimento string
}

var alunos = []alunoSeed{
	{"Maria Silva", "maria.silva@email.com", "1998-03-15"},
	{"João Santos", "joao.santos@email.com", "1999-07-22"},
	{"Ana Costa", "ana.costa@email.com", "1997-11-08"},
	{"Pedro Oliveira", "pedro.oliveira@email.com", "2000-01-30"},
	{"Julia Ferreira", "julia.ferreira@email.com", "1998-09-12"},
	{"Lucas Rodrigues", "lucas.rodrigues@email.com", "1999-05-25"},
	{"Camila Alves", "camila.alves@email.com", "1997-12-03"},
	{"Rafael Lima", "rafael.lima@email.com", "2000-04-18"},
}

var areas = []struct {
	titulo, descricao string
}{
	{"Biologia", "Curso completo de Biologia, abordando desde citologia até ecologia, preparando o aluno para vestibulares e ENEM."},
	{"Química", "Curso de Química geral, orgânica e inorgânica com foco em resolução de exercícios e experimentos práticos."},
	{"Física", "Curso de Física mecânica, termodinâmica, eletromagnetismo e física moderna com metodologia inovadora."},
	{"Matemática", "Curso de Matemática básica e avançada, álgebra, geometria e cálculo para ensino médio e pré-vestibular."},
	{"Português", "Curso de Língua Portuguesa, gramática, literatura e redação com técnicas de interpretação de texto."},
}

// matriculas reference alunos and areas by their 1-based position above.
var matriculas = []struct {
	aluno, area int
	status      model.Status
}{
	{1, 1, model.StatusAtiva},
	{1, 2, model.StatusAtiva},
	{2, 3, model.StatusAtiva},
	{2, 4, model.StatusAtiva},
	{3, 1, model.StatusConcluida},
	{3, 5, model.StatusAtiva},
	{4, 2, model.StatusAtiva},
	{4, 3, model.StatusAtiva},
	{5, 1, model.StatusAtiva},
	{6, 4, model.StatusAtiva},
	{6, 5, model.StatusAtiva},
	{7, 2, model.StatusInativa},
	{7, 1, model.StatusAtiva},
	{8, 3, model.StatusAtiva},
}

// Result reports what Run inserted.
type Result struct {
	Skipped    bool
	Alunos     int
	AreaCursos int
	Matriculas int
}

// Run inserts the demo data in a single transaction. It does nothing when
// alunos already has rows.
func Run(ctx context.Context, db *bun.DB, logger *slog.Logger) (Result, error) {
	count, err := db.NewSelect().Model((*model.Aluno)(nil)).Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to count alunos: %w", err)
	}
	if count > 0 {
		logger.InfoContext(ctx, "seed skipped, database already has alunos", "alunos", count)
		return Result{Skipped: true}, nil
	}

	var result Result
	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		alunoRows := make([]*model.Aluno, 0, len(alunos))
		for _, s := range alunos {
			birth, err := model.ParseDate(s.nascimento)
			if err != nil {
				return err
			}
			alunoRows = append(alunoRows, &model.Aluno{Nome: s.nome, Email: s.email, DataNascimento: &birth})
		}
		for _, a := range alunoRows {
			if _, err := tx.NewInsert().Model(a).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert aluno %s: %w", a.Email, err)
			}
		}

		areaRows := make([]*model.AreaCurso, 0, len(areas))
		for _, s := range areas {
			descricao := s.descricao
			areaRows = append(areaRows, &model.AreaCurso{Titulo: s.titulo, Descricao: &descricao})
		}
		for _, ac := range areaRows {
			if _, err := tx.NewInsert().Model(ac).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert area de curso %s: %w", ac.Titulo, err)
			}
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, s := range matriculas {
			m := &model.Matricula{
				AlunoID:       alunoRows[s.aluno-1].ID,
				AreaCursoID:   areaRows[s.area-1].ID,
				Status:        s.status,
				DataMatricula: now,
			}
			if _, err := tx.NewInsert().Model(m).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert matricula: %w", err)
			}
		}

		result = Result{Alunos: len(alunoRows), AreaCursos: len(areaRows), Matriculas: len(matriculas)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.InfoContext(ctx, "seed completed", "alunos", result.Alunos, "area_cursos", result.AreaCursos, "matriculas", result.Matriculas)
	return result, nil
}
