// Package generator draws unique multi-character combinations from the
// character pool, avoiding everything the lexicon and the verification log
// already know.
package generator

import (
	"context"
	"math/rand"
	"sort"

	"wordforge/internal/domain"
	"wordforge/internal/logger"
)

// maxDrawFactor bounds the draw loop: up to count*maxDrawFactor attempts
// before a short result is returned.
const maxDrawFactor = 20

// LengthWeights maps combination length to its relative draw probability,
// e.g. {2: 0.80, 4: 0.15, 3: 0.05}.
type LengthWeights map[int]float64

// LexiconOracle answers whether a candidate is already a known term.
type LexiconOracle interface {
	LookupExact(ctx context.Context, text string) ([]domain.Term, error)
}

// LogOracle answers which of a batch of combinations were already judged.
type LogOracle interface {
	ContainsAny(ctx context.Context, combinations []string) ([]string, error)
}

// Generator produces unique, never-before-seen combinations. Uniqueness is
// enforced against the in-call set and against both oracles; across the whole
// corpus no combination is ever presented twice.
type Generator struct {
	pool    *CharPool
	weights LengthWeights
	lexicon LexiconOracle
	journal LogOracle
	log     logger.Logger

	// weighted choice state, precomputed from weights
	lengths []int
	cumsum  []float64
	total   float64
}

// New builds a generator over pool with the given length distribution.
func New(pool *CharPool, weights LengthWeights, lexicon LexiconOracle, journal LogOracle, log logger.Logger) *Generator {
	g := &Generator{
		pool:    pool,
		weights: weights,
		lexicon: lexicon,
		journal: journal,
		log:     log,
	}
	for length := range weights {
		g.lengths = append(g.lengths, length)
	}
	sort.Ints(g.lengths)
	for _, length := range g.lengths {
		g.total += weights[length]
		g.cumsum = append(g.cumsum, g.total)
	}
	return g
}

// GenerateUnique draws up to count unique combinations. Best effort: after
// count*20 attempts it returns whatever it accumulated, which may be short or
// empty. Callers must handle a short result.
func (g *Generator) GenerateUnique(ctx context.Context, count int) ([]string, error) {
	chars := g.pool.Runes()

	seen := make(map[string]struct{}, count)
	out := make([]string, 0, count)
	maxAttempts := count * maxDrawFactor

	for attempts := 0; len(out) < count && attempts < maxAttempts; attempts++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		length := g.chooseLength()
		if length <= 0 || len(chars) < length {
			continue
		}

		combination := sampleWithoutReplacement(chars, length)
		if _, dup := seen[combination]; dup {
			continue
		}

		known, err := g.alreadyKnown(ctx, combination)
		if err != nil {
			// Without an oracle answer the candidate cannot be proven
			// fresh, and a combination must never reach the provider
			// twice. Drop it; the batch degrades to a short result.
			g.log.Warn("duplicate oracle lookup failed, rejecting candidate",
				logger.String("combination", combination),
				logger.Error(err))
			continue
		}
		if known {
			continue
		}

		seen[combination] = struct{}{}
		out = append(out, combination)
	}

	if len(out) < count {
		g.log.Debug("generator returned a short batch",
			logger.Int("requested", count),
			logger.Int("generated", len(out)))
	}
	return out, nil
}

// alreadyKnown consults the lexicon and the verification log.
func (g *Generator) alreadyKnown(ctx context.Context, combination string) (bool, error) {
	matches, err := g.lexicon.LookupExact(ctx, combination)
	if err != nil {
		return false, err
	}
	if len(matches) > 0 {
		return true, nil
	}

	judged, err := g.journal.ContainsAny(ctx, []string{combination})
	if err != nil {
		return false, err
	}
	return len(judged) > 0, nil
}

// chooseLength picks a combination length by weighted random choice.
func (g *Generator) chooseLength() int {
	if g.total <= 0 {
		return 0
	}
	r := rand.Float64() * g.total
	for i, c := range g.cumsum {
		if r < c {
			return g.lengths[i]
		}
	}
	return g.lengths[len(g.lengths)-1]
}

// sampleWithoutReplacement joins length distinct characters from chars.
// No character repeats within one combination.
func sampleWithoutReplacement(chars []rune, length int) string {
	idx := rand.Perm(len(chars))[:length]
	picked := make([]rune, length)
	for i, j := range idx {
		picked[i] = chars[j]
	}
	return string(picked)
}
