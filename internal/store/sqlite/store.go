// Package sqlite implements the wordforge data store backed by a SQLite
// database. It holds the lexicon, the verification log of judged
// combinations, and the import bookkeeping for lexicon source files.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const defaultMaxOpenConns = 10
const defaultMaxIdleConns = 10

// Store wraps a SQLite database connection for all persistence operations.
type Store struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at path, runs migrations, and
// enables WAL mode for concurrent reads.
func Open(path string) (*Store, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	// Per-connection PRAGMAs go on the DSN so every pooled connection gets them.
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_pragma=foreign_keys(1)&_pragma=synchronous(normal)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)

	// journal_mode and busy_timeout are database-wide; set them once here.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite setup (%s): %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates all required tables and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS lexicon_terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	term TEXT NOT NULL UNIQUE,
	pinyin TEXT NULL,
	definition TEXT NULL,
	source_file TEXT NULL,
	imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS generated_word_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	combination TEXT NOT NULL UNIQUE,
	is_word BOOLEAN NOT NULL,
	definition TEXT NULL,
	source TEXT NULL,
	checked_by_model TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS imported_files_log (
	file_identifier TEXT PRIMARY KEY,
	file_hash TEXT NOT NULL,
	status TEXT NOT NULL,
	last_imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_lexicon_terms_term ON lexicon_terms(term);
CREATE INDEX IF NOT EXISTS idx_generated_word_log_combination ON generated_word_log(combination);
CREATE INDEX IF NOT EXISTS idx_generated_word_log_is_word ON generated_word_log(is_word);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
