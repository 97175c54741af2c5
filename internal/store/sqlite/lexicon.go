package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"wordforge/internal/domain"
)

// LookupExact returns every lexicon entry whose term matches text exactly.
func (s *Store) LookupExact(ctx context.Context, text string) ([]domain.Term, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT term, pinyin, definition, source_file, imported_at
FROM lexicon_terms
WHERE term = ?`, text)
	if err != nil {
		return nil, fmt.Errorf("sqlite: lookup term: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Term
	for rows.Next() {
		var t domain.Term
		var pinyin, definition, sourceFile sql.NullString
		if err := rows.Scan(&t.Term, &pinyin, &definition, &sourceFile, &t.ImportedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan term: %w", err)
		}
		t.Pinyin = pinyin.String
		t.Definition = definition.String
		t.SourceFile = sourceFile.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// RandomTerm draws one lexicon entry uniformly at random, optionally
// restricted to a single source file. Returns nil when nothing matches.
func (s *Store) RandomTerm(ctx context.Context, sourceFile string) (*domain.Term, error) {
	query := `
SELECT term, pinyin, definition, source_file, imported_at
FROM lexicon_terms`
	var args []any
	if sourceFile != "" {
		query += ` WHERE source_file = ?`
		args = append(args, sourceFile)
	}
	query += ` ORDER BY RANDOM() LIMIT 1`

	var t domain.Term
	var pinyin, definition, src sql.NullString
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&t.Term, &pinyin, &definition, &src, &t.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: random term: %w", err)
	}
	t.Pinyin = pinyin.String
	t.Definition = definition.String
	t.SourceFile = src.String
	return &t, nil
}

// AllDistinctCharacters extracts every distinct CJK character appearing in
// any lexicon term. This seeds the character pool under the lexicon
// population strategy.
func (s *Store) AllDistinctCharacters(ctx context.Context) ([]rune, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT term FROM lexicon_terms`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan lexicon characters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[rune]struct{})
	var chars []rune
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("sqlite: scan term: %w", err)
		}
		for _, r := range term {
			if r < 0x4E00 || r > 0x9FFF { // CJK Unified Ideographs only
				continue
			}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			chars = append(chars, r)
		}
	}
	return chars, rows.Err()
}

// InsertTerms writes a batch of lexicon entries, ignoring terms that already
// exist. Returns how many rows were actually inserted.
func (s *Store) InsertTerms(ctx context.Context, terms []domain.Term) (int, error) {
	if len(terms) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin insert terms: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO lexicon_terms (term, pinyin, definition, source_file)
VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert terms: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, t := range terms {
		res, err := stmt.ExecContext(ctx, t.Term, nullable(t.Pinyin), nullable(t.Definition), nullable(t.SourceFile))
		if err != nil {
			return inserted, fmt.Errorf("sqlite: insert term %q: %w", t.Term, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit insert terms: %w", err)
	}
	return inserted, nil
}

// TermCount returns the number of lexicon entries.
func (s *Store) TermCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lexicon_terms`).Scan(&n)
	return n, err
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
