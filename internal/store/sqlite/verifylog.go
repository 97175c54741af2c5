package sqlite

import (
	"context"
	"fmt"
	"strings"

	"wordforge/internal/domain"
)

// ContainsAny reports which of the given combinations already have a row in
// the verification log.
func (s *Store) ContainsAny(ctx context.Context, combinations []string) ([]string, error) {
	if len(combinations) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(combinations)), ",")
	args := make([]any, len(combinations))
	for i, c := range combinations {
		args[i] = c
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT combination FROM generated_word_log WHERE combination IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: check verification log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("sqlite: scan combination: %w", err)
		}
		hits = append(hits, c)
	}
	return hits, rows.Err()
}

// BatchUpsertIgnore writes a batch of verdicts with insert-or-ignore
// semantics keyed by combination text. A combination that already has a row
// keeps its original verdict; the duplicate write is silently dropped.
// Returns how many rows were actually inserted.
func (s *Store) BatchUpsertIgnore(ctx context.Context, verdicts []domain.Verdict) (int, error) {
	if len(verdicts) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin verdict write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO generated_word_log (combination, is_word, definition, source, checked_by_model)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare verdict write: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, v := range verdicts {
		res, err := stmt.ExecContext(ctx, v.Combination, v.IsWord, v.Definition, v.Source, v.CheckedByModel)
		if err != nil {
			return inserted, fmt.Errorf("sqlite: insert verdict %q: %w", v.Combination, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit verdict write: %w", err)
	}
	return inserted, nil
}

// JudgedCounts returns how many combinations were judged words and non-words.
func (s *Store) JudgedCounts(ctx context.Context) (words, nonWords int, err error) {
	err = s.db.QueryRowContext(ctx, `
SELECT
	COALESCE(SUM(CASE WHEN is_word THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN is_word THEN 0 ELSE 1 END), 0)
FROM generated_word_log`).Scan(&words, &nonWords)
	return words, nonWords, err
}
