package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/config"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/schema"
	_ "modernc.org/sqlite"
)

// New opens the store selected by cfg.Driver and verifies the connection.
func New(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres, "":
		database, err := NewWithDSN(ctx, PostgresDSN(cfg))
		if err != nil {
			return nil, err
		}
		applyPool(database.DB, cfg)
		return database, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// PostgresDSN renders cfg as a postgres:// URL. Credentials are escaped.
func PostgresDSN(cfg config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// NewWithDSN connects to Postgres with an explicit DSN. Integration tests use it
// with the testcontainer connection string.
func NewWithDSN(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return open(ctx, sqldb, pgdialect.New(), config.DriverPostgres)
}

// NewSQLite opens a SQLite file (or a "file:" URI) with foreign keys enforced.
// The pool holds a single connection: SQLite has one writer.
func NewSQLite(ctx context.Context, path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	database, err := open(ctx, sqldb, sqlitedialect.New(), config.DriverSQLite)
	if err != nil {
		return nil, err
	}
	if _, err := database.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return database, nil
}

// SQLiteDSN passes "file:" URIs through and turns plain paths into one with
// foreign keys and a busy timeout.
func SQLiteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func open(ctx context.Context, sqldb *sql.DB, dialect schema.Dialect, driver string) (*bun.DB, error) {
	database := bun.NewDB(sqldb, dialect)
	// matriculas doubles as the m2m join model of Aluno.AreaCursos and AreaCurso.Alunos.
	database.RegisterModel(model.Models()...)

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("error pinging %s database: %w", driver, err)
	}

	slog.InfoContext(ctx, "database connected successfully", "driver", driver)
	return database, nil
}

func applyPool(sqlDB *sql.DB, cfg config.DatabaseConfig) {
	maxOpen := orDefault(cfg.MaxOpenConns, 25)
	maxIdle := orDefault(cfg.MaxIdleConns, 10)
	lifetime := orDefault(cfg.ConnMaxLifetime, 300)
	idleTime := orDefault(cfg.ConnMaxIdleTime, 60)

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Duration(lifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(idleTime) * time.Second)

	slog.Info("database pool configured",
		"max_open_conns", maxOpen,
		"max_idle_conns", maxIdle,
		"conn_max_lifetime_seconds", lifetime,
		"conn_max_idle_time_seconds", idleTime,
	)
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func Close(database *bun.DB) {
	if database != nil {
		database.Close()
	}
}
