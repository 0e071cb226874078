// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"airlinelookup/internal/db"
)

// TestDB creates a test database connection and returns a cleanup function.
// Tests are skipped when TEST_DATABASE_URL is unset.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM lookup_stats")
}

// SeedLookupStat inserts a lookup stat row with the given count.
func SeedLookupStat(t *testing.T, database *db.DB, queryKey, outcome string, count int64) {
	t.Helper()
	ctx := context.Background()

	_, err := database.Pool.Exec(ctx, `
		INSERT INTO lookup_stats (query_key, outcome, count, last_seen_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (query_key, outcome) DO UPDATE SET count = EXCLUDED.count
	`, queryKey, outcome, count)
	if err != nil {
		t.Fatalf("failed to seed lookup stat: %v", err)
	}
}
