// Package testsupport holds fixtures shared by tests across packages.
package testsupport

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/infrastructure/database"
)

// EnvDatabaseURL names the variable that enables the Postgres legs of the test suites.
const EnvDatabaseURL = "TEST_DATABASE_URL"

var schemaOnce sync.Once

// PostgresPool connects to TEST_DATABASE_URL, makes sure the schema exists and
// empties every table with identity reset. The test is skipped when the
// variable is unset. Every package truncates the same tables, so run the
// Postgres legs with `go test -p 1 ./...`.
func PostgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set, skipping Postgres test", EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.NewPostgresDB(&database.DBConfig{URL: dsn, MaxRetries: 1})
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { _ = db.Close() })

	var schemaErr error
	schemaOnce.Do(func() {
		schemaErr = database.EnsureSchema(ctx, db.Pool)
	})
	require.NoError(t, schemaErr)

	_, err := db.Pool.Exec(ctx, "TRUNCATE "+strings.Join(database.Tables, ", ")+" RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return db.Pool
}
