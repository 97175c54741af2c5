// Package forge runs generation rounds: draw unique combinations, ask the
// provider which are real words, persist the verdicts exactly once, and
// aggregate results across concurrent rounds.
package forge

import (
	"context"
	"sync"

	"wordforge/internal/domain"
	"wordforge/internal/llm"
	"wordforge/internal/logger"
	"wordforge/internal/prompt"
)

// Generator draws unique candidate combinations.
type Generator interface {
	GenerateUnique(ctx context.Context, count int) ([]string, error)
}

// Verifier obtains one provider reply for a rendered prompt, retrying across
// the credential pool.
type Verifier interface {
	Run(ctx context.Context, promptText string, params llm.GenerationParams) (*llm.Response, error)
}

// VerdictStore persists verdict batches idempotently.
type VerdictStore interface {
	BatchUpsertIgnore(ctx context.Context, verdicts []domain.Verdict) (int, error)
}

// JudgedCache mirrors the judged set for cheap duplicate checks. Optional;
// all failures are best-effort.
type JudgedCache interface {
	AddJudged(ctx context.Context, combinations []string) error
}

// Service wires one generation pipeline. One Service instance is shared by
// all rounds; the credential pool behind the Verifier is the only mutable
// state they share.
type Service struct {
	gen    Generator
	verify Verifier
	store  VerdictStore
	cache  JudgedCache // nil when no cache is configured
	model  string
	log    logger.Logger
}

// NewService builds the round pipeline. cache may be nil.
func NewService(gen Generator, verify Verifier, store VerdictStore, cache JudgedCache, model string, log logger.Logger) *Service {
	return &Service{
		gen:    gen,
		verify: verify,
		store:  store,
		cache:  cache,
		model:  model,
		log:    log,
	}
}

// RunRounds launches rounds concurrently, each generating up to perRound
// combinations and verifying them independently. Every round runs to
// completion; a failing round is captured in its report and never cancels a
// sibling. The returned words are the de-duplicated union of all verified
// words (first occurrence wins for metadata).
func (s *Service) RunRounds(ctx context.Context, rounds, perRound int) ([]domain.VerifiedWord, []domain.RoundReport) {
	if rounds < 1 {
		rounds = 1
	}

	reports := make([]domain.RoundReport, rounds)
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			reports[idx] = s.runRound(ctx, idx, perRound)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{})
	var words []domain.VerifiedWord
	for _, report := range reports {
		for _, w := range report.Valid {
			if _, dup := seen[w.Word]; dup {
				continue
			}
			seen[w.Word] = struct{}{}
			words = append(words, w)
		}
	}
	return words, reports
}

// runRound performs one generate-verify-persist cycle.
func (s *Service) runRound(ctx context.Context, idx, perRound int) domain.RoundReport {
	report := domain.RoundReport{Round: idx + 1, Requested: perRound}

	combinations, err := s.gen.GenerateUnique(ctx, perRound)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Generated = len(combinations)
	if len(combinations) == 0 {
		s.log.Warn("round produced no new combinations", logger.Int("round", report.Round))
		return report
	}

	promptText, err := prompt.Render(combinations)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	res, err := s.verify.Run(ctx, promptText, nil)
	if err != nil {
		// The batch could not be verified. Nothing is persisted so the
		// combinations stay available for a future round, but they must
		// not vanish from the report.
		s.log.Error("verification call failed",
			logger.Int("round", report.Round),
			logger.Error(err))
		report.Error = err.Error()
		report.Unverified = true
		report.Invalid = combinations
		return report
	}

	entries := prompt.Parse(res.Text)
	valid, invalid := s.commit(ctx, combinations, entries)
	report.Valid = valid
	report.Invalid = invalid
	return report
}
