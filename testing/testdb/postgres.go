package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

// PostgresContainer is a migrated plataforma_ensino database in a container.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DB        *bun.DB
	DSN       string
}

var sharedPostgres = sync.OnceValues(func() (*PostgresContainer, error) {
	return startPostgres(context.Background())
})

func startPostgres(ctx context.Context) (*PostgresContainer, error) {
	c, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("plataforma_ensino_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		// postgres logs "ready" once for the init run and once for the real server
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}

	database, err := db.NewWithDSN(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, database); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &PostgresContainer{Container: c, DB: database, DSN: dsn}, nil
}

// SetupSharedPostgres returns the Postgres container shared by the test binary,
// starting it on first use. Tests sharing it must not run in parallel and call
// Reset before each scenario:
//
//	pg := testdb.SetupSharedPostgres(t)
//	t.Run("cria matricula", func(t *testing.T) {
//	    pg.Reset(t)
//	    ...
//	})
//
// Skipped with -short or when SKIP_POSTGRES_TESTS is set.
func SetupSharedPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	if testing.Short() || os.Getenv("SKIP_POSTGRES_TESTS") != "" {
		t.Skip("skipping postgres integration test")
	}

	pc, err := sharedPostgres()
	require.NoError(t, err, "failed to start postgres container")
	return pc
}

// Reset empties alunos, area_cursos and matriculas and restarts their ids.
func (pc *PostgresContainer) Reset(t *testing.T) {
	t.Helper()
	require.NoError(t, db.ResetTables(context.Background(), pc.DB))
}
