package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airlinelookup/internal/models"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := New(ctx, connString)
	require.NoError(t, err, "failed to connect to test database")

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	database.Pool.Exec(ctx, "DELETE FROM lookup_stats")

	cleanup := func() {
		database.Pool.Exec(ctx, "DELETE FROM lookup_stats")
		database.Close()
	}
	return database, cleanup
}

// lookupStat reads one row, or nil when the key and outcome were never seen.
func lookupStat(t *testing.T, d *DB, queryKey, outcome string) *models.LookupStat {
	t.Helper()

	var s models.LookupStat
	err := d.Pool.QueryRow(context.Background(), `
		SELECT query_key, outcome, count, last_seen_at
		FROM lookup_stats
		WHERE query_key = $1 AND outcome = $2
	`, queryKey, outcome).Scan(&s.QueryKey, &s.Outcome, &s.Count, &s.LastSeenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	require.NoError(t, err)
	return &s
}

func TestIncrementLookup(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, db.IncrementLookup(ctx, "tap air portugal||", "resolved"))
	require.NoError(t, db.IncrementLookup(ctx, "tap air portugal||", "resolved"))
	require.NoError(t, db.IncrementLookup(ctx, "tap air portugal||", "cache_hit"))

	stat := lookupStat(t, db, "tap air portugal||", "resolved")
	require.NotNil(t, stat)
	assert.Equal(t, int64(2), stat.Count)
	assert.False(t, stat.LastSeenAt.IsZero())

	stats, err := db.GetAllLookupStats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 2)
}

func TestIncrementLookupValidation(t *testing.T) {
	db := &DB{}
	assert.ErrorIs(t, db.IncrementLookup(context.Background(), "", "resolved"), ErrInvalidLookupStat)
	assert.ErrorIs(t, db.IncrementLookup(context.Background(), "|TP|", ""), ErrInvalidLookupStat)
}

func TestUnseenLookupHasNoRow(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.Nil(t, lookupStat(t, db, "|ZZ|", "not_found"))
}

func TestPing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Ping(context.Background()))
}
