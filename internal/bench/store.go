package bench

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/sihui/internal/config"
	"github.com/studiowebux/sihui/internal/history"
	"github.com/studiowebux/sihui/internal/migrations"
)

// Store persists run reports
type Store struct {
	db *sql.DB
}

// NewStore opens the request log database at dbPath
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts report and sets its ID
func (s *Store) Save(report *Report) error {
	result, err := s.db.Exec(`
		INSERT INTO bench_runs
		(host, method, endpoint, concurrency, requests, sent, completed, succeeded, rejected, failed, status,
		 avg_duration_ms, min_duration_ms, max_duration_ms, p50_duration_ms, p95_duration_ms, p99_duration_ms,
		 started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.Host, report.Method, report.Endpoint, report.Concurrency, report.Requests, report.Sent,
		report.Completed, report.Succeeded, report.Rejected, report.Failed, report.Status,
		report.AvgDurationMs, report.MinDurationMs, report.MaxDurationMs,
		report.P50DurationMs, report.P95DurationMs, report.P99DurationMs,
		formatTime(report.StartedAt), formatTime(report.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to save bench run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	report.ID = id
	return nil
}

// List returns the newest runs first; limit <= 0 returns all
func (s *Store) List(limit int) ([]*Report, error) {
	query := `
		SELECT id, host, method, endpoint, concurrency, requests, sent, completed, succeeded, rejected, failed,
		       status, avg_duration_ms, min_duration_ms, max_duration_ms, p50_duration_ms, p95_duration_ms,
		       p99_duration_ms, started_at, completed_at
		FROM bench_runs
		ORDER BY started_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bench runs: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		r := &Report{}
		var started, completed string
		if err := rows.Scan(&r.ID, &r.Host, &r.Method, &r.Endpoint, &r.Concurrency, &r.Requests, &r.Sent,
			&r.Completed, &r.Succeeded, &r.Rejected, &r.Failed, &r.Status,
			&r.AvgDurationMs, &r.MinDurationMs, &r.MaxDurationMs,
			&r.P50DurationMs, &r.P95DurationMs, &r.P99DurationMs,
			&started, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan bench run: %w", err)
		}
		r.StartedAt = history.ParseTimestamp(started)
		r.CompletedAt = history.ParseTimestamp(completed)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Clear deletes every stored run
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM bench_runs")
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(history.TimestampLayout)
}
