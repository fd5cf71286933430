// Package dbtest provides a migrated, empty Postgres pool for integration tests.
// Tests using it are skipped unless TEST_DATABASE_URL is set.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"invoice-backend/internal/database"
	"invoice-backend/migrations"
)

// EnvVar names the connection string used by integration tests.
const EnvVar = "TEST_DATABASE_URL"

// Pool connects to the test database, applies migrations and empties the invoicing
// tables. The pool is closed when the test finishes.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvVar)
	if dsn == "" {
		t.Skipf("%s not set, skipping database test", EnvVar)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	Truncate(t, pool)
	return pool
}

// Truncate removes every row from the invoicing tables.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE TABLE invoice_items, invoices, items, persons CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}
