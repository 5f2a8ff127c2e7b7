package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// poolGauge reads one value out of sql.DBStats.
type poolGauge struct {
	name        string
	description string
	read        func(sql.DBStats) int64
}

var poolGauges = []poolGauge{
	{"plataforma.db.connections.open", "Open connections to the store", func(s sql.DBStats) int64 { return int64(s.OpenConnections) }},
	{"plataforma.db.connections.idle", "Idle connections in the pool", func(s sql.DBStats) int64 { return int64(s.Idle) }},
	{"plataforma.db.connections.in_use", "Connections currently serving a query", func(s sql.DBStats) int64 { return int64(s.InUse) }},
	{"plataforma.db.connections.max_open", "Configured connection limit", func(s sql.DBStats) int64 { return int64(s.MaxOpenConnections) }},
	{"plataforma.db.connections.wait_count", "Total waits for a free connection", func(s sql.DBStats) int64 { return s.WaitCount }},
}

type DatabaseMetrics struct {
	queryDuration metric.Float64Histogram
	queryErrors   metric.Int64Counter
}

func NewDatabaseMetrics(meter metric.Meter) (*DatabaseMetrics, error) {
	// 1ms to 10s; SQLite queries land in the first buckets, Postgres a few further.
	queryDuration, err := meter.Float64Histogram(
		"plataforma.db.query.duration",
		metric.WithDescription("Repository query duration by operation and table"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1,
			0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
		),
	)
	if err != nil {
		return nil, err
	}

	queryErrors, err := meter.Int64Counter(
		"plataforma.db.query.errors",
		metric.WithDescription("Failed repository queries by operation and table"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &DatabaseMetrics{queryDuration: queryDuration, queryErrors: queryErrors}, nil
}

// RegisterDB exports the pool stats of db through one observable callback.
func (dm *DatabaseMetrics) RegisterDB(db *sql.DB, meter metric.Meter) error {
	if dm == nil || dm.queryDuration == nil || db == nil {
		return nil
	}

	gauges := make([]metric.Int64ObservableGauge, len(poolGauges))
	observables := make([]metric.Observable, len(poolGauges))
	for i, g := range poolGauges {
		gauge, err := meter.Int64ObservableGauge(g.name,
			metric.WithDescription(g.description),
			metric.WithUnit("{connection}"),
		)
		if err != nil {
			return err
		}
		gauges[i] = gauge
		observables[i] = gauge
	}

	_, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		stats := db.Stats()
		for i, g := range poolGauges {
			observer.ObserveInt64(gauges[i], g.read(stats))
		}
		return nil
	}, observables...)
	return err
}

// RecordQuery records one repository call. sql.ErrNoRows is a normal "not found"
// outcome and is not counted as an error.
func (dm *DatabaseMetrics) RecordQuery(ctx context.Context, operation string, table string, duration time.Duration, err error) {
	if dm == nil || dm.queryDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("table", table),
	)
	dm.queryDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		dm.queryErrors.Add(ctx, 1, attrs)
	}
}
