package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunAppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Run(db))

	version, err := GetCurrentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, AllMigrations[len(AllMigrations)-1].Version, version)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, len(AllMigrations), count)
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, len(AllMigrations), count)
}

func TestSchemaTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Run(db))

	for _, table := range []string{"history", "analytics", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}

	for _, index := range []string{"idx_analytics_grouping", "idx_bench_runs_started"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", index).Scan(&name)
		assert.NoError(t, err, index)
	}

	for _, table := range []string{"bench_runs", "query_bookmarks"} {
		var name string
		assert.NoError(t, db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name), table)
	}
}

func TestMigrationVersionsAreOrdered(t *testing.T) {
	for i := 1; i < len(AllMigrations); i++ {
		if AllMigrations[i].Version <= AllMigrations[i-1].Version {
			t.Errorf("migration %d out of order", AllMigrations[i].Version)
		}
	}
}
