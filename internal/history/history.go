package history

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/sihui/internal/config"
	"github.com/studiowebux/sihui/internal/migrations"
	"github.com/studiowebux/sihui/internal/types"
)

// TimestampLayout is how timestamps are stored (UTC)
const TimestampLayout = "2006-01-02 15:04:05"

// Manager is the sqlite-backed request log. It implements client.Recorder.
type Manager struct {
	db  *sql.DB
	now func() time.Time
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, now: time.Now}, nil
}

// Record stores one exchange
func (m *Manager) Record(exchange types.Exchange) error {
	ts := exchange.Timestamp
	if ts.IsZero() {
		ts = m.now()
	}

	var errMsg sql.NullString
	if exchange.Error != "" {
		errMsg = sql.NullString{String: exchange.Error, Valid: true}
	}

	query := `
		INSERT INTO history (
			id, timestamp, host, method, url, endpoint, status, duration_ms,
			request_id, request_size, response_size, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		uuid.NewString(),
		ts.UTC().Format(TimestampLayout),
		HostOf(exchange.URL),
		exchange.Method,
		exchange.URL,
		exchange.Endpoint,
		exchange.Status,
		exchange.Duration.Milliseconds(),
		exchange.RequestID,
		exchange.RequestSize,
		exchange.ResponseSize,
		errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// Load returns the newest entries first. limit <= 0 returns everything.
func (m *Manager) Load(limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, method, url, endpoint, status, duration_ms,
		       COALESCE(request_id, ''), request_size, response_size, error
		FROM history
		ORDER BY timestamp DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var entry types.HistoryEntry
		var timestamp string
		var errorMsg sql.NullString

		err := rows.Scan(
			&entry.ID,
			&timestamp,
			&entry.Method,
			&entry.URL,
			&entry.Endpoint,
			&entry.Status,
			&entry.DurationMs,
			&entry.RequestID,
			&entry.RequestSize,
			&entry.ResponseSize,
			&errorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entry.Timestamp = ParseTimestamp(timestamp).Format(time.RFC3339)
		entry.Error = errorMsg.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Clear removes every entry
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Delete removes one entry by id
func (m *Manager) Delete(id string) error {
	result, err := m.db.Exec("DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("history entry %s not found", id)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// HostOf returns the host[:port] of a URL, or "" when it does not parse
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// ParseTimestamp reads a stored timestamp. The sqlite driver hands DATETIME columns
// back as RFC3339 while computed columns stay in the storage layout.
func ParseTimestamp(raw string) time.Time {
	if t, err := time.ParseInLocation(TimestampLayout, raw, time.UTC); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
