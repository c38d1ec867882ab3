// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS books (
    name TEXT PRIMARY KEY
);

CREATE VIRTUAL TABLE IF NOT EXISTS passages USING fts5(
    book UNINDEXED,
    content
);
`

// SQLiteStore keeps per-book passages in an FTS5 index and serves them back
// as context for quiz generation.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Books
// ============================================================================

// AddPassages indexes passages under book, registering the book on first use.
// Blank passages are skipped; the number actually stored is returned.
func (s *SQLiteStore) AddPassages(ctx context.Context, book string, passages []string) (int, error) {
	book = NormalizeBookName(book)
	if book == "" {
		return 0, errors.New("book name is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO books (name) VALUES (?)", book); err != nil {
		return 0, err
	}

	added := 0
	for _, p := range passages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO passages (book, content) VALUES (?, ?)", book, p); err != nil {
			return 0, err
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *SQLiteStore) bookExists(ctx context.Context, book string) (bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM books WHERE name = ?", book).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ============================================================================
// Search
// ============================================================================

// Search returns up to k passages of book ranked by bm25 against query.
// An unknown book yields ErrNotFound. When the query has no searchable terms
// or matches nothing, the book's first k passages are returned instead.
func (s *SQLiteStore) Search(ctx context.Context, book, query string, k int) ([]string, error) {
	book = NormalizeBookName(book)
	if k <= 0 {
		k = DefaultSearchLimit
	}

	ok, err := s.bookExists(ctx, book)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	if match := matchExpression(query); match != "" {
		passages, err := s.queryPassages(ctx, `
			SELECT content FROM passages
			WHERE passages MATCH ? AND book = ?
			ORDER BY bm25(passages)
			LIMIT ?`, match, book, k)
		if err != nil || len(passages) > 0 {
			return passages, err
		}
	}

	return s.queryPassages(ctx,
		"SELECT content FROM passages WHERE book = ? ORDER BY rowid LIMIT ?", book, k)
}

func (s *SQLiteStore) queryPassages(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search passages: %w", err)
	}
	defer rows.Close()

	var passages []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

// ContextFor joins the best passages for query into a single context block.
func (s *SQLiteStore) ContextFor(ctx context.Context, book, query string, k int) (string, error) {
	passages, err := s.Search(ctx, book, query, k)
	if err != nil {
		return "", err
	}
	return strings.Join(passages, "\n\n"), nil
}

// matchExpression turns free text into an FTS5 query of quoted terms joined
// by OR, so user input never reaches the FTS5 query syntax.
func matchExpression(query string) string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}
