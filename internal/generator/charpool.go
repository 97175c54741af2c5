package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wordforge/internal/logger"
)

// Strategy produces a fresh character pool. Strategies are registered under a
// stable name at startup and looked up from configuration; an unknown name
// fails eagerly instead of at first use.
type Strategy func(ctx context.Context) ([]rune, error)

// StaticStrategy serves a fixed, deduplicated character set. Useful for
// small deployments without an imported lexicon.
func StaticStrategy(chars string) Strategy {
	return func(ctx context.Context) ([]rune, error) {
		seen := make(map[rune]struct{})
		var out []rune
		for _, r := range chars {
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
		return out, nil
	}
}

// CharPool holds the character set combinations are drawn from. It is an
// explicitly constructed service: populated via Refresh, immutable between
// refreshes, safe for concurrent readers.
type CharPool struct {
	mu          sync.RWMutex
	chars       []rune
	lastRefresh time.Time
	strategy    string

	strategies map[string]Strategy
	log        logger.Logger
}

// NewCharPool creates an empty pool with no registered strategies.
func NewCharPool(log logger.Logger) *CharPool {
	return &CharPool{
		strategies: make(map[string]Strategy),
		log:        log,
	}
}

// RegisterStrategy adds a named population strategy. Duplicate registration
// is a programming error and fails.
func (p *CharPool) RegisterStrategy(name string, s Strategy) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.strategies[name]; exists {
		return fmt.Errorf("charpool: strategy %q already registered", name)
	}
	p.strategies[name] = s
	return nil
}

// Validate checks that a strategy name is registered. Called at startup so a
// misconfigured strategy fails the process before the first round runs.
func (p *CharPool) Validate(name string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.strategies[name]; !ok {
		return fmt.Errorf("charpool: unknown strategy %q", name)
	}
	return nil
}

// Refresh repopulates the pool using the named strategy. The character slice
// is replaced atomically; concurrent readers keep the old snapshot.
func (p *CharPool) Refresh(ctx context.Context, strategy string) error {
	p.mu.RLock()
	populate, ok := p.strategies[strategy]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("charpool: unknown strategy %q", strategy)
	}

	chars, err := populate(ctx)
	if err != nil {
		return fmt.Errorf("charpool: refresh via %q: %w", strategy, err)
	}

	p.mu.Lock()
	p.chars = chars
	p.lastRefresh = time.Now()
	p.strategy = strategy
	p.mu.Unlock()

	p.log.Info("character pool refreshed",
		logger.String("strategy", strategy),
		logger.Int("characters", len(chars)))
	return nil
}

// Runes returns the current pool snapshot. Callers must not mutate it.
func (p *CharPool) Runes() []rune {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.chars
}

// Size returns the number of characters in the pool.
func (p *CharPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.chars)
}

// LastRefresh returns when the pool was last repopulated.
func (p *CharPool) LastRefresh() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRefresh
}
