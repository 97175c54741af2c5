// Package redis caches the judged-combination set in front of the SQLite
// verification log. The cache is strictly best-effort: SQLite stays
// authoritative and every cache failure degrades to a direct store lookup.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"wordforge/internal/logger"
)

// FallbackJournal is the authoritative membership check behind the cache.
type FallbackJournal interface {
	ContainsAny(ctx context.Context, combinations []string) ([]string, error)
}

// Journal answers "was this combination already judged" using a Redis set
// first and the authoritative store for everything the set does not claim.
// Positive cache answers are trusted: the judged set only ever grows.
type Journal struct {
	client   *redis.Client
	fallback FallbackJournal
	log      logger.Logger
}

// NewJournal wraps fallback with a Redis membership cache.
func NewJournal(client *redis.Client, fallback FallbackJournal, log logger.Logger) *Journal {
	return &Journal{client: client, fallback: fallback, log: log}
}

// ContainsAny reports which combinations were already judged. Cache hits are
// returned immediately; the remainder is checked against the store and the
// store's hits are backfilled into the cache.
func (j *Journal) ContainsAny(ctx context.Context, combinations []string) ([]string, error) {
	if len(combinations) == 0 {
		return nil, nil
	}

	members := make([]any, len(combinations))
	for i, c := range combinations {
		members[i] = c
	}

	flags, err := j.client.SMIsMember(ctx, KeyJudgedSet, members...).Result()
	if err != nil {
		j.log.Debug("judged-set cache unavailable, falling back to store", logger.Error(err))
		return j.fallback.ContainsAny(ctx, combinations)
	}

	var hits []string
	var misses []string
	for i, c := range combinations {
		if flags[i] {
			hits = append(hits, c)
		} else {
			misses = append(misses, c)
		}
	}
	if len(misses) == 0 {
		return hits, nil
	}

	stored, err := j.fallback.ContainsAny(ctx, misses)
	if err != nil {
		return hits, err
	}
	if len(stored) > 0 {
		// Warm the cache for next time; best effort.
		if err := j.AddJudged(ctx, stored); err != nil {
			j.log.Debug("failed to backfill judged-set cache", logger.Error(err))
		}
		hits = append(hits, stored...)
	}
	return hits, nil
}

// AddJudged records freshly judged combinations in the cache set.
func (j *Journal) AddJudged(ctx context.Context, combinations []string) error {
	if len(combinations) == 0 {
		return nil
	}
	members := make([]any, len(combinations))
	for i, c := range combinations {
		members[i] = c
	}
	return j.client.SAdd(ctx, KeyJudgedSet, members...).Err()
}

// JudgedCount returns the cache's view of how many combinations were judged.
func (j *Journal) JudgedCount(ctx context.Context) (int64, error) {
	return j.client.SCard(ctx, KeyJudgedSet).Result()
}
