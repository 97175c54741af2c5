package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"wordforge/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "wordforge.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestLexicon_InsertAndLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	terms := []domain.Term{
		{Term: "山海", Pinyin: "shān hǎi", Definition: "山与海", SourceFile: "a.yaml"},
		{Term: "风月", SourceFile: "a.yaml"},
	}
	inserted, err := s.InsertTerms(ctx, terms)
	if err != nil {
		t.Fatalf("InsertTerms failed: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	// Re-inserting the same terms is a no-op.
	inserted, err = s.InsertTerms(ctx, terms)
	if err != nil {
		t.Fatalf("second InsertTerms failed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second insert = %d rows, want 0", inserted)
	}

	got, err := s.LookupExact(ctx, "山海")
	if err != nil {
		t.Fatalf("LookupExact failed: %v", err)
	}
	if len(got) != 1 || got[0].Pinyin != "shān hǎi" {
		t.Fatalf("LookupExact = %+v, want one entry with pinyin", got)
	}

	got, err = s.LookupExact(ctx, "不存在")
	if err != nil {
		t.Fatalf("LookupExact miss failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LookupExact miss = %+v, want empty", got)
	}
}

func TestLexicon_RandomTerm(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Empty lexicon yields no entry, not an error.
	got, err := s.RandomTerm(ctx, "")
	if err != nil {
		t.Fatalf("RandomTerm on empty lexicon failed: %v", err)
	}
	if got != nil {
		t.Fatalf("RandomTerm on empty lexicon = %+v, want nil", got)
	}

	_, err = s.InsertTerms(ctx, []domain.Term{
		{Term: "山海", Pinyin: "shān hǎi", Definition: "山与海", SourceFile: "a.yaml"},
		{Term: "风月", SourceFile: "b.yaml"},
	})
	if err != nil {
		t.Fatalf("InsertTerms failed: %v", err)
	}

	// Unfiltered draws always land on an inserted term.
	for i := 0; i < 10; i++ {
		got, err = s.RandomTerm(ctx, "")
		if err != nil {
			t.Fatalf("RandomTerm failed: %v", err)
		}
		if got == nil || (got.Term != "山海" && got.Term != "风月") {
			t.Fatalf("RandomTerm = %+v, want one of the inserted terms", got)
		}
	}

	// A source filter restricts the draw to that file.
	for i := 0; i < 10; i++ {
		got, err = s.RandomTerm(ctx, "b.yaml")
		if err != nil {
			t.Fatalf("RandomTerm with source failed: %v", err)
		}
		if got == nil || got.Term != "风月" {
			t.Fatalf("RandomTerm(b.yaml) = %+v, want 风月", got)
		}
	}

	got, err = s.RandomTerm(ctx, "missing.yaml")
	if err != nil {
		t.Fatalf("RandomTerm with unknown source failed: %v", err)
	}
	if got != nil {
		t.Errorf("RandomTerm(missing.yaml) = %+v, want nil", got)
	}
}

func TestLexicon_AllDistinctCharacters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.InsertTerms(ctx, []domain.Term{
		{Term: "山海"},
		{Term: "海风abc"}, // latin letters are not pool material
	})
	if err != nil {
		t.Fatalf("InsertTerms failed: %v", err)
	}

	chars, err := s.AllDistinctCharacters(ctx)
	if err != nil {
		t.Fatalf("AllDistinctCharacters failed: %v", err)
	}

	got := make(map[rune]bool, len(chars))
	for _, r := range chars {
		got[r] = true
	}
	for _, want := range []rune("山海风") {
		if !got[want] {
			t.Errorf("character pool missing %q", string(want))
		}
	}
	if len(chars) != 3 {
		t.Errorf("pool size = %d, want 3 (deduplicated, CJK only)", len(chars))
	}
}

func TestVerifyLog_IdempotentBatchUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	verdicts := []domain.Verdict{
		{Combination: "山月", IsWord: true, Definition: strPtr("d"), Source: nil, CheckedByModel: "m1"},
		{Combination: "月山", IsWord: false, CheckedByModel: "m1"},
	}

	inserted, err := s.BatchUpsertIgnore(ctx, verdicts)
	if err != nil {
		t.Fatalf("BatchUpsertIgnore failed: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	// Committing the same verdicts again leaves exactly one row each,
	// with the original metadata untouched.
	conflicting := []domain.Verdict{
		{Combination: "山月", IsWord: false, CheckedByModel: "m2"},
	}
	inserted, err = s.BatchUpsertIgnore(ctx, conflicting)
	if err != nil {
		t.Fatalf("second BatchUpsertIgnore failed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second insert = %d rows, want 0", inserted)
	}

	words, nonWords, err := s.JudgedCounts(ctx)
	if err != nil {
		t.Fatalf("JudgedCounts failed: %v", err)
	}
	if words != 1 || nonWords != 1 {
		t.Errorf("JudgedCounts = (%d,%d), want (1,1)", words, nonWords)
	}
}

func TestVerifyLog_ContainsAny(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.BatchUpsertIgnore(ctx, []domain.Verdict{
		{Combination: "山月", IsWord: false, CheckedByModel: "m"},
	})
	if err != nil {
		t.Fatalf("BatchUpsertIgnore failed: %v", err)
	}

	hits, err := s.ContainsAny(ctx, []string{"山月", "风月"})
	if err != nil {
		t.Fatalf("ContainsAny failed: %v", err)
	}
	if len(hits) != 1 || hits[0] != "山月" {
		t.Errorf("ContainsAny = %v, want [山月]", hits)
	}

	hits, err = s.ContainsAny(ctx, nil)
	if err != nil {
		t.Fatalf("ContainsAny(nil) failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("ContainsAny(nil) = %v, want empty", hits)
	}
}

func TestImportLog_HashRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	hash, err := s.LastImportedHash(ctx, "lexicon/a.yaml")
	if err != nil {
		t.Fatalf("LastImportedHash failed: %v", err)
	}
	if hash != "" {
		t.Errorf("hash for unseen file = %q, want empty", hash)
	}

	if err := s.UpsertImportLog(ctx, "lexicon/a.yaml", "abc123", "success"); err != nil {
		t.Fatalf("UpsertImportLog failed: %v", err)
	}
	if err := s.UpsertImportLog(ctx, "lexicon/a.yaml", "def456", "success"); err != nil {
		t.Fatalf("second UpsertImportLog failed: %v", err)
	}

	hash, err = s.LastImportedHash(ctx, "lexicon/a.yaml")
	if err != nil {
		t.Fatalf("LastImportedHash failed: %v", err)
	}
	if hash != "def456" {
		t.Errorf("hash = %q, want def456 (latest wins)", hash)
	}
}
