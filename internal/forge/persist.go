package forge

import (
	"context"

	"wordforge/internal/domain"
	"wordforge/internal/logger"
	"wordforge/internal/prompt"
)

// commit builds one verdict per candidate combination and writes the whole
// round as a single idempotent batch. A combination the provider confirmed
// keeps its definition/source; everything else is recorded as a non-word so
// it is never generated again. Returns the split for the round report.
func (s *Service) commit(ctx context.Context, combinations []string, entries []prompt.Entry) ([]domain.VerifiedWord, []string) {
	confirmed := make(map[string]prompt.Entry, len(entries))
	for _, e := range entries {
		if _, dup := confirmed[e.Word]; dup {
			continue // first occurrence wins
		}
		confirmed[e.Word] = e
	}

	verdicts := make([]domain.Verdict, 0, len(combinations))
	var valid []domain.VerifiedWord
	var invalid []string

	for _, combination := range combinations {
		if e, ok := confirmed[combination]; ok {
			definition := e.Definition
			verdicts = append(verdicts, domain.Verdict{
				Combination:    combination,
				IsWord:         true,
				Definition:     &definition,
				Source:         e.Source,
				CheckedByModel: s.model,
			})
			valid = append(valid, domain.VerifiedWord{
				Word:       combination,
				Definition: e.Definition,
				Source:     e.Source,
			})
			continue
		}
		verdicts = append(verdicts, domain.Verdict{
			Combination:    combination,
			IsWord:         false,
			CheckedByModel: s.model,
		})
		invalid = append(invalid, combination)
	}

	inserted, err := s.store.BatchUpsertIgnore(ctx, verdicts)
	if err != nil {
		s.log.Error("failed to persist verdicts", logger.Error(err))
		return valid, invalid
	}
	s.log.Info("round verdicts persisted",
		logger.Int("verdicts", len(verdicts)),
		logger.Int("inserted", inserted))

	if s.cache != nil {
		if err := s.cache.AddJudged(ctx, combinations); err != nil {
			s.log.Warn("failed to update judged-set cache", logger.Error(err))
		}
	}
	return valid, invalid
}
