package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LastImportedHash returns the hash recorded for a lexicon source file, or
// "" when the file was never imported.
func (s *Store) LastImportedHash(ctx context.Context, fileIdentifier string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
SELECT file_hash FROM imported_files_log WHERE file_identifier = ?`, fileIdentifier).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: query import log: %w", err)
	}
	return hash, nil
}

// UpsertImportLog records (or refreshes) the import outcome for a source file.
func (s *Store) UpsertImportLog(ctx context.Context, fileIdentifier, fileHash, status string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO imported_files_log (file_identifier, file_hash, status, last_imported_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(file_identifier) DO UPDATE SET
	file_hash = excluded.file_hash,
	status = excluded.status,
	last_imported_at = CURRENT_TIMESTAMP`, fileIdentifier, fileHash, status)
	if err != nil {
		return fmt.Errorf("sqlite: upsert import log: %w", err)
	}
	return nil
}
