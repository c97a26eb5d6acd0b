package filter

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/sihui/internal/migrations"
)

// BookmarkPrefix marks a --filter or --query value as a saved query name
const BookmarkPrefix = "@"

var (
	// ErrBookmarkNotFound is returned for an unknown saved query name
	ErrBookmarkNotFound = errors.New("saved query not found")

	bookmarkName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

// Bookmark is a named, saved expression
type Bookmark struct {
	ID         int       `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Expression string    `json:"expression" yaml:"expression"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// BookmarkManager handles saved query persistence
type BookmarkManager struct {
	db *sql.DB
}

// NewBookmarkManager opens the request log database at dbPath
func NewBookmarkManager(dbPath string) (*BookmarkManager, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &BookmarkManager{db: db}, nil
}

// Save stores expression under name, replacing an existing entry.
// JMESPath expressions are compiled first; $(...) shell queries are stored as is.
func (m *BookmarkManager) Save(name, expression string) error {
	name = strings.TrimSpace(name)
	expression = strings.TrimSpace(expression)
	if !bookmarkName.MatchString(name) {
		return fmt.Errorf("invalid name %q (letters, digits, '.', '_' and '-')", name)
	}
	if expression == "" {
		return fmt.Errorf("expression cannot be empty")
	}
	if !IsShellCommand(expression) && !IsValidJMESPath(expression) {
		return fmt.Errorf("invalid JMESPath expression '%s'", expression)
	}

	_, err := m.db.Exec(`
		INSERT INTO query_bookmarks (name, expression, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET expression = excluded.expression, created_at = CURRENT_TIMESTAMP
	`, name, expression)
	if err != nil {
		return fmt.Errorf("failed to save query: %w", err)
	}
	return nil
}

// Get returns the expression saved under name
func (m *BookmarkManager) Get(name string) (string, error) {
	var expression string
	err := m.db.QueryRow("SELECT expression FROM query_bookmarks WHERE name = ?", name).Scan(&expression)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrBookmarkNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load query: %w", err)
	}
	return expression, nil
}

// Delete removes a saved query by name
func (m *BookmarkManager) Delete(name string) error {
	result, err := m.db.Exec("DELETE FROM query_bookmarks WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete query: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrBookmarkNotFound, name)
	}
	return nil
}

// List returns saved queries by name
func (m *BookmarkManager) List() ([]Bookmark, error) {
	rows, err := m.db.Query(`
		SELECT id, name, expression, created_at
		FROM query_bookmarks
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved queries: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.Name, &b.Expression, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved query: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved queries: %w", err)
	}
	return bookmarks, nil
}

// Resolve expands an @name reference; other values are returned unchanged
func (m *BookmarkManager) Resolve(value string) (string, error) {
	if !strings.HasPrefix(value, BookmarkPrefix) {
		return value, nil
	}
	return m.Get(strings.TrimPrefix(value, BookmarkPrefix))
}

// Close closes the database connection
func (m *BookmarkManager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
