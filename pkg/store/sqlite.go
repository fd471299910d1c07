package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	expression TEXT NOT NULL,
	value REAL NOT NULL DEFAULT 0,
	formatted TEXT NOT NULL DEFAULT '',
	ok INTEGER NOT NULL DEFAULT 0,
	error_kind TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT '',
	create_time INTEGER NOT NULL
)`

// SQLite is a history persisted in a SQLite database file.
type SQLite struct {
	db    *sql.DB
	limit int
}

// NewSQLite opens (or creates) the database at path. ":memory:" gives a
// private in-memory database. limit <= 0 means unbounded.
func NewSQLite(path string, limit int) (*SQLite, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// One connection: an in-memory database exists per connection, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &SQLite{db: db, limit: limit}, nil
}

// Add inserts a result and trims the table to the configured limit.
func (s *SQLite) Add(ctx context.Context, r types.Result) (*Entry, error) {
	e := newEntry(r)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to add history entry: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (id, expression, value, formatted, ok, error_kind, error, create_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Expression, e.Value, e.Formatted, e.OK, string(e.ErrorKind), e.Error, e.CreateTime.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to add history entry: %w", err)
	}

	if s.limit > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM history WHERE seq NOT IN (
				SELECT seq FROM history ORDER BY seq DESC LIMIT ?
			)
		`, s.limit)
		if err != nil {
			return nil, fmt.Errorf("failed to trim history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to add history entry: %w", err)
	}
	return e, nil
}

// Get retrieves an entry by id.
func (s *SQLite) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, expression, value, formatted, ok, error_kind, error, create_time
		FROM history WHERE id = ?
	`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return e, nil
}

// List returns entries newest first.
func (s *SQLite) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, expression, value, formatted, ok, error_kind, error, create_time
		FROM history ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear removes every entry.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e     Entry
		kind  string
		nanos int64
	)
	if err := sc.Scan(&e.ID, &e.Expression, &e.Value, &e.Formatted, &e.OK, &kind, &e.Error, &nanos); err != nil {
		return nil, err
	}
	e.ErrorKind = types.ErrorKind(kind)
	e.CreateTime = time.Unix(0, nanos).UTC()
	return &e, nil
}
