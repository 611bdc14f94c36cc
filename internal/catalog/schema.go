// Package catalog provides the SQLite-backed recipe store.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/larder/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recipes (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	category     TEXT,
	cooking_time INTEGER,
	difficulty   TEXT,
	instructions TEXT,
	created_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ingredients (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	recipe_id INTEGER,
	name      TEXT NOT NULL,
	quantity  TEXT,
	unit      TEXT,
	FOREIGN KEY (recipe_id) REFERENCES recipes (id)
);
`

// Options tune how a store is opened.
type Options struct {
	// CaseSensitive makes LIKE searches case-sensitive for ASCII letters.
	// The zero value keeps SQLite's case-insensitive LIKE, which is what
	// existing recipes.db users search with.
	CaseSensitive bool
}

// DB wraps a sql.DB with recipe operations.
type DB struct {
	conn          *sql.DB
	caseSensitive bool
}

// Open opens (or creates) the store at path and ensures the schema exists.
func Open(path string, opts Options) (*DB, error) {
	db, err := open(fileURI(path, url.Values{
		"_busy_timeout": {"5000"},
		"_foreign_keys": {"on"},
	}), opts)
	if err != nil {
		return nil, err
	}
	if _, err := db.conn.Exec(schemaSQL); err != nil {
		db.conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return db, nil
}

// OpenExisting opens an existing store read-only. It never creates the file
// or the schema and returns apperr.ErrStoreMissing when path does not exist.
func OpenExisting(path string, opts Options) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog: %s: %w", path, apperr.ErrStoreMissing)
		}
		return nil, fmt.Errorf("catalog: stat store: %w", err)
	}
	return open(fileURI(path, url.Values{
		"mode":          {"ro"},
		"_busy_timeout": {"5000"},
	}), opts)
}

// fileURI builds a file: URI for path. The path is percent-encoded so names
// containing '?', '#' or '%' reach SQLite unchanged.
func fileURI(path string, params url.Values) string {
	u := url.URL{Path: filepath.ToSlash(path)}
	return "file:" + u.EscapedPath() + "?" + params.Encode()
}

func open(dsn string, opts Options) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	return &DB{conn: conn, caseSensitive: opts.CaseSensitive}, nil
}

// Close closes the underlying database handle.
func (db *DB) Close() error {
	return db.conn.Close()
}

// acquire returns a connection scoped to a single operation. The caller must
// release it with Close.
func (db *DB) acquire(ctx context.Context) (*sql.Conn, error) {
	c, err := db.conn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: acquire connection: %w", err)
	}
	pragma := "PRAGMA case_sensitive_like = OFF"
	if db.caseSensitive {
		pragma = "PRAGMA case_sensitive_like = ON"
	}
	if _, err := c.ExecContext(ctx, pragma); err != nil {
		c.Close()
		return nil, fmt.Errorf("catalog: configure connection: %w", err)
	}
	return c, nil
}
