package testdb

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var sqliteSeq atomic.Int64

// NewSQLite returns a migrated, private in-memory SQLite store that is closed
// when the test ends.
func NewSQLite(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf(
		"file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		name, sqliteSeq.Add(1),
	)

	ctx := context.Background()
	database, err := db.NewSQLite(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(ctx, database))
	return database
}
