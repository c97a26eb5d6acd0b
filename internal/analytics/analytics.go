package analytics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/config"
	"github.com/studiowebux/sihui/internal/history"
	"github.com/studiowebux/sihui/internal/migrations"
	"github.com/studiowebux/sihui/internal/types"
)

// DefaultCacheTTL is how long aggregated stats are served from memory
const DefaultCacheTTL = 5 * time.Second

// Stats aggregates the calls made to one normalized endpoint with one method
type Stats struct {
	NormalizedEndpoint string      `json:"endpoint" yaml:"endpoint"`
	Method             string      `json:"method" yaml:"method"`
	TotalCalls         int         `json:"totalCalls" yaml:"totalCalls"`
	SuccessCount       int         `json:"successCount" yaml:"successCount"`
	ErrorCount         int         `json:"errorCount" yaml:"errorCount"`
	NetworkErrors      int         `json:"networkErrors" yaml:"networkErrors"` // no response received (status 0)
	AvgDurationMs      float64     `json:"avgDurationMs" yaml:"avgDurationMs"`
	MinDurationMs      int64       `json:"minDurationMs" yaml:"minDurationMs"`
	MaxDurationMs      int64       `json:"maxDurationMs" yaml:"maxDurationMs"`
	TotalReqSize       int64       `json:"totalRequestSize" yaml:"totalRequestSize"`
	TotalRespSize      int64       `json:"totalResponseSize" yaml:"totalResponseSize"`
	StatusCodes        map[int]int `json:"statusCodes" yaml:"statusCodes"`
	LastCalled         time.Time   `json:"lastCalled" yaml:"lastCalled"`
}

// SuccessRate is the share of 2xx calls, 0 when nothing was called
func (s Stats) SuccessRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.TotalCalls)
}

// Manager stores per-call rows and aggregates them. It implements client.Recorder.
type Manager struct {
	db    *sql.DB
	cache *statsCache
	now   func() time.Time
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create analytics directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to analytics database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{
		db:    db,
		cache: newStatsCache(DefaultCacheTTL),
		now:   time.Now,
	}, nil
}

// Record stores one exchange under its normalized endpoint
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
		INSERT INTO analytics (
			host, endpoint, normalized_endpoint, method, status_code,
			request_size, response_size, duration_ms, error_message, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		history.HostOf(exchange.URL),
		exchange.Endpoint,
		client.NormalizeEndpoint(exchange.Endpoint),
		exchange.Method,
		exchange.Status,
		exchange.RequestSize,
		exchange.ResponseSize,
		exchange.Duration.Milliseconds(),
		errMsg,
		ts.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to save analytics entry: %w", err)
	}

	m.cache.invalidate()
	return nil
}

// GetStats aggregates per normalized endpoint and method, most recently called first.
// An empty host covers every backend.
func (m *Manager) GetStats(host string) ([]Stats, error) {
	if cached, ok := m.cache.get(host); ok {
		return cached, nil
	}

	// Status code counts are folded into one JSON object per group
	query := `
		WITH status_codes_agg AS (
			SELECT
				normalized_endpoint,
				method,
				json_group_object(CAST(status_code AS TEXT), count) as status_codes_json
			FROM (
				SELECT
					normalized_endpoint,
					method,
					status_code,
					COUNT(*) as count
				FROM analytics
				WHERE host = ? OR ? = ''
				GROUP BY normalized_endpoint, method, status_code
			)
			GROUP BY normalized_endpoint, method
		)
		SELECT
			a.normalized_endpoint,
			a.method,
			COUNT(*) as total_calls,
			SUM(CASE WHEN a.status_code >= 200 AND a.status_code < 300 THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN a.status_code >= 400 THEN 1 ELSE 0 END) as error_count,
			SUM(CASE WHEN a.status_code = 0 THEN 1 ELSE 0 END) as network_errors,
			AVG(a.duration_ms) as avg_duration,
			MIN(a.duration_ms) as min_duration,
			MAX(a.duration_ms) as max_duration,
			SUM(a.request_size) as total_req_size,
			SUM(a.response_size) as total_resp_size,
			MAX(a.timestamp) as last_called,
			COALESCE(s.status_codes_json, '{}') as status_codes_json
		FROM analytics a
		LEFT JOIN status_codes_agg s ON a.normalized_endpoint = s.normalized_endpoint AND a.method = s.method
		WHERE a.host = ? OR ? = ''
		GROUP BY a.normalized_endpoint, a.method
		ORDER BY last_called DESC, a.normalized_endpoint, a.method
	`

	rows, err := m.db.Query(query, host, host, host, host)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	var statsList []Stats
	for rows.Next() {
		var s Stats
		var lastCalled sql.NullString
		var statusCodesJSON string

		err := rows.Scan(
			&s.NormalizedEndpoint,
			&s.Method,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.NetworkErrors,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&s.TotalReqSize,
			&s.TotalRespSize,
			&lastCalled,
			&statusCodesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}

		if lastCalled.Valid {
			s.LastCalled = history.ParseTimestamp(lastCalled.String)
		}

		s.StatusCodes, err = parseStatusCodes(statusCodesJSON)
		if err != nil {
			return nil, err
		}

		statsList = append(statsList, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	m.cache.set(host, statsList)
	return statsList, nil
}

func parseStatusCodes(raw string) (map[int]int, error) {
	codes := make(map[int]int)
	if raw == "" || raw == "{}" {
		return codes, nil
	}

	var byText map[string]int
	if err := json.Unmarshal([]byte(raw), &byText); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status codes: %w", err)
	}
	for text, count := range byText {
		if code, err := strconv.Atoi(text); err == nil {
			codes[code] = count
		}
	}
	return codes, nil
}

// SortedStatusCodes returns the status codes of s in ascending order
func SortedStatusCodes(s Stats) []int {
	codes := make([]int, 0, len(s.StatusCodes))
	for code := range s.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM analytics")
	if err != nil {
		return fmt.Errorf("failed to clear analytics: %w", err)
	}
	m.cache.invalidate()
	return nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
