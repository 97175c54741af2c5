package llm

import (
	"context"
	"errors"
	"time"

	"wordforge/internal/credpool"
	"wordforge/internal/logger"
)

// DefaultMaxAttempts is how many full passes over the pool Run makes.
const DefaultMaxAttempts = 3

// Executor performs one classified provider call with one credential.
type Executor interface {
	Execute(ctx context.Context, credential, prompt string, params GenerationParams) (*Response, error)
}

// Retrier drives attempts across the shared credential pool until one call
// succeeds or the pool/attempt budget is exhausted. Credential-specific
// failures (429, 401/403) are absorbed into pool-state transitions and the
// orchestrator keeps going with the next key; only a pool-exhausting failure
// surfaces to the caller.
type Retrier struct {
	pool        *credpool.Pool
	exec        Executor
	maxAttempts int
	log         logger.Logger

	sleep func(time.Duration) // injectable for tests
}

// NewRetrier wires a retry orchestrator over pool and exec.
func NewRetrier(pool *credpool.Pool, exec Executor, maxAttempts int, log logger.Logger) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Retrier{
		pool:        pool,
		exec:        exec,
		maxAttempts: maxAttempts,
		log:         log,
		sleep:       time.Sleep,
	}
}

// Run attempts the request until success. Per attempt it walks the shuffled
// eligible batch; a permission failure permanently abandons that key, a rate
// limit benches it, anything else is remembered as the last error. Between
// failed attempts it backs off 2^attempt seconds. An empty eligible batch
// aborts immediately with ErrCredentialsExhausted: no amount of backoff can
// bring a key back sooner.
func (r *Retrier) Run(ctx context.Context, prompt string, params GenerationParams) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		batch := r.pool.Eligible()
		if len(batch) == 0 {
			r.log.Error("no eligible API credentials remain")
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, ErrCredentialsExhausted
		}

		for _, credential := range batch {
			r.log.Infof("attempt %d/%d using key %s", attempt+1, r.maxAttempts, keyHint(credential))

			res, err := r.exec.Execute(ctx, credential, prompt, params)
			if err == nil {
				return res, nil
			}

			var permErr *PermissionError
			var rateErr *RateLimitError
			switch {
			case errors.As(err, &permErr):
				r.log.Errorf("key %s permanently abandoned: %v", keyHint(credential), err)
				r.pool.MarkForbidden(credential)
			case errors.As(err, &rateErr):
				r.log.Warnf("key %s rate limited, cooling down: %v", keyHint(credential), err)
				r.pool.MarkRateLimited(credential)
			default:
				r.log.Warnf("request with key %s failed: %v", keyHint(credential), err)
			}
			lastErr = err

			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		if attempt < r.maxAttempts-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			r.log.Debugf("attempt %d failed, backing off %s", attempt+1, backoff)
			r.sleep(backoff)
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrAttemptsFailed
}
