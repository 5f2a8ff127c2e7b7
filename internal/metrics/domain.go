package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DomainMetrics counts business events per entity.
type DomainMetrics struct {
	alunosCreated     metric.Int64Counter
	alunosDeleted     metric.Int64Counter
	areasCreated      metric.Int64Counter
	areasDeleted      metric.Int64Counter
	matriculasCreated metric.Int64Counter
	matriculasDeleted metric.Int64Counter
	statusChanges     metric.Int64Counter
	rulesViolated     metric.Int64Counter
	listsViewed       metric.Int64Counter
}

func NewDomainMetrics(meter metric.Meter) (*DomainMetrics, error) {
	m := &DomainMetrics{}

	var err error

	m.alunosCreated, err = meter.Int64Counter(
		"plataforma.alunos.created",
		metric.WithDescription("Total number of alunos created"),
		metric.WithUnit("{aluno}"),
	)
	if err != nil {
		return nil, err
	}

	m.alunosDeleted, err = meter.Int64Counter(
		"plataforma.alunos.deleted",
		metric.WithDescription("Total number of alunos deleted"),
		metric.WithUnit("{aluno}"),
	)
	if err != nil {
		return nil, err
	}

	m.areasCreated, err = meter.Int64Counter(
		"plataforma.area_cursos.created",
		metric.WithDescription("Total number of areas de curso created"),
		metric.WithUnit("{area}"),
	)
	if err != nil {
		return nil, err
	}

	m.areasDeleted, err = meter.Int64Counter(
		"plataforma.area_cursos.deleted",
		metric.WithDescription("Total number of areas de curso deleted"),
		metric.WithUnit("{area}"),
	)
	if err != nil {
		return nil, err
	}

	m.matriculasCreated, err = meter.Int64Counter(
		"plataforma.matriculas.created",
		metric.WithDescription("Total number of matriculas created"),
		metric.WithUnit("{matricula}"),
	)
	if err != nil {
		return nil, err
	}

	m.matriculasDeleted, err = meter.Int64Counter(
		"plataforma.matriculas.deleted",
		metric.WithDescription("Total number of matriculas deleted"),
		metric.WithUnit("{matricula}"),
	)
	if err != nil {
		return nil, err
	}

	m.statusChanges, err = meter.Int64Counter(
		"plataforma.matriculas.status_changes",
		metric.WithDescription("Matricula status transitions"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, err
	}

	m.rulesViolated, err = meter.Int64Counter(
		"plataforma.rules.violations",
		metric.WithDescription("Requests rejected by enrollment rules"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, err
	}

	m.listsViewed, err = meter.Int64Counter(
		"plataforma.lists.viewed",
		metric.WithDescription("Total number of list requests per resource"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func add(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	if len(attrs) == 0 {
		c.Add(ctx, 1)
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *DomainMetrics) RecordAlunoCreated(ctx context.Context) {
	if m != nil {
		add(ctx, m.alunosCreated)
	}
}

func (m *DomainMetrics) RecordAlunoDeleted(ctx context.Context) {
	if m != nil {
		add(ctx, m.alunosDeleted)
	}
}

func (m *DomainMetrics) RecordAreaCursoCreated(ctx context.Context) {
	if m != nil {
		add(ctx, m.areasCreated)
	}
}

func (m *DomainMetrics) RecordAreaCursoDeleted(ctx context.Context) {
	if m != nil {
		add(ctx, m.areasDeleted)
	}
}

func (m *DomainMetrics) RecordMatriculaCreated(ctx context.Context, status string) {
	if m != nil {
		add(ctx, m.matriculasCreated, attribute.String("status", status))
	}
}

func (m *DomainMetrics) RecordMatriculaDeleted(ctx context.Context) {
	if m != nil {
		add(ctx, m.matriculasDeleted)
	}
}

func (m *DomainMetrics) RecordStatusChange(ctx context.Context, from, to string) {
	if m != nil {
		add(ctx, m.statusChanges, attribute.String("from", from), attribute.String("to", to))
	}
}

// RecordRuleViolation counts a rejection by rule name, e.g. "aluno_deletable".
func (m *DomainMetrics) RecordRuleViolation(ctx context.Context, rule string) {
	if m != nil {
		add(ctx, m.rulesViolated, attribute.String("rule", rule))
	}
}

func (m *DomainMetrics) RecordListViewed(ctx context.Context, resource string) {
	if m != nil {
		add(ctx, m.listsViewed, attribute.String("resource", resource))
	}
}
