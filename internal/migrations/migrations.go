package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add host indices",
		Up: `
			-- Both tables already carry the host column; index it for per-backend filtering
			CREATE INDEX IF NOT EXISTS idx_history_host ON history(host);
			CREATE INDEX IF NOT EXISTS idx_analytics_host ON analytics(host);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_history_host;
			DROP INDEX IF EXISTS idx_analytics_host;
		`,
	},
	{
		Version: 2,
		Name:    "Add request id lookup index",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_history_request_id ON history(request_id);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_history_request_id;
		`,
	},
	{
		Version: 3,
		Name:    "Add composite indexes for analytics query optimization",
		Up: `
			-- Host filtering + timestamp ordering (GetStats ORDER BY)
			CREATE INDEX IF NOT EXISTS idx_analytics_host_timestamp ON analytics(host, timestamp DESC);

			-- GROUP BY normalized_endpoint, method
			CREATE INDEX IF NOT EXISTS idx_analytics_grouping ON analytics(host, normalized_endpoint, method, status_code, duration_ms);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_analytics_host_timestamp;
			DROP INDEX IF EXISTS idx_analytics_grouping;
		`,
	},
	{
		Version: 4,
		Name:    "Add bench runs",
		Up: `
			CREATE TABLE IF NOT EXISTS bench_runs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				host TEXT NOT NULL DEFAULT '',
				method TEXT NOT NULL,
				endpoint TEXT NOT NULL,
				concurrency INTEGER NOT NULL,
				requests INTEGER NOT NULL,
				sent INTEGER NOT NULL,
				completed INTEGER NOT NULL,
				succeeded INTEGER NOT NULL,
				rejected INTEGER NOT NULL,
				failed INTEGER NOT NULL,
				status TEXT NOT NULL,
				avg_duration_ms REAL NOT NULL DEFAULT 0,
				min_duration_ms INTEGER NOT NULL DEFAULT 0,
				max_duration_ms INTEGER NOT NULL DEFAULT 0,
				p50_duration_ms INTEGER NOT NULL DEFAULT 0,
				p95_duration_ms INTEGER NOT NULL DEFAULT 0,
				p99_duration_ms INTEGER NOT NULL DEFAULT 0,
				started_at DATETIME NOT NULL,
				completed_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_bench_runs_started ON bench_runs(started_at DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_bench_runs_started;
			DROP TABLE IF EXISTS bench_runs;
		`,
	},
	{
		Version: 5,
		Name:    "Add saved queries",
		Up: `
			CREATE TABLE IF NOT EXISTS query_bookmarks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				expression TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
		Down: `
			DROP TABLE IF EXISTS query_bookmarks;
		`,
	},
}

// InitSchema creates all tables required across all modules
// This must be called before running migrations to ensure all tables exist
func InitSchema(db *sql.DB) error {
	schema := `
	-- Request log
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		host TEXT NOT NULL DEFAULT '',
		method TEXT NOT NULL,
		url TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		status INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		request_id TEXT,
		request_size INTEGER NOT NULL DEFAULT 0,
		response_size INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_history_endpoint ON history(endpoint);
	CREATE INDEX IF NOT EXISTS idx_history_method ON history(method);

	-- Analytics table
	CREATE TABLE IF NOT EXISTS analytics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		host TEXT NOT NULL DEFAULT '',
		endpoint TEXT NOT NULL,
		normalized_endpoint TEXT NOT NULL,
		method TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		request_size INTEGER NOT NULL DEFAULT 0,
		response_size INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL,
		error_message TEXT,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_normalized ON analytics(normalized_endpoint);
	CREATE INDEX IF NOT EXISTS idx_analytics_method ON analytics(method);
	CREATE INDEX IF NOT EXISTS idx_analytics_timestamp ON analytics(timestamp);
	CREATE INDEX IF NOT EXISTS idx_analytics_status_code ON analytics(status_code);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Run executes all pending migrations on the database
func Run(db *sql.DB) error {
	// Initialize schema first to ensure all tables exist
	if err := InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}
		if _, err := tx.Exec(migration.Up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
		// INSERT OR IGNORE: two managers may open the same file concurrently
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
