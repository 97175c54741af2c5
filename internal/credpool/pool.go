package credpool

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// DefaultCooldown is how long a rate-limited credential stays benched (30 min).
const DefaultCooldown = 30 * time.Minute

// ErrNoCredentials is returned when a pool is constructed without any keys.
var ErrNoCredentials = errors.New("credpool: no API credentials configured")

// Pool tracks the lifecycle state of a set of API credentials shared by all
// concurrent generation rounds. State lives in memory only and is scoped to
// one Pool instance:
//
//	Active -> TemporarilyDisabled   on a rate-limit signal (cooldown applies)
//	TemporarilyDisabled -> Active   once the cooldown has elapsed
//	Active -> PermanentlyAbandoned  on a 401/403, irreversible for the process
type Pool struct {
	mu            sync.Mutex
	credentials   []string
	disabledUntil map[string]time.Time
	abandoned     map[string]struct{}
	cooldown      time.Duration

	now func() time.Time
	rng *rand.Rand
}

// New builds a pool over the given credentials. Fails fast when the list is
// empty: a process without keys can never make progress.
func New(credentials []string, cooldown time.Duration) (*Pool, error) {
	if len(credentials) == 0 {
		return nil, ErrNoCredentials
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	creds := make([]string, len(credentials))
	copy(creds, credentials)
	return &Pool{
		credentials:   creds,
		disabledUntil: make(map[string]time.Time),
		abandoned:     make(map[string]struct{}),
		cooldown:      cooldown,
		now:           time.Now,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Eligible returns every credential currently usable, in random order so load
// spreads evenly across keys. Credentials whose cooldown has elapsed are
// promoted back to active first. An empty result means no attempt can
// possibly succeed right now; the pool never blocks waiting for a cooldown.
func (p *Pool) Eligible() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for key, until := range p.disabledUntil {
		if !until.After(now) {
			delete(p.disabledUntil, key)
		}
	}

	eligible := make([]string, 0, len(p.credentials))
	for _, key := range p.credentials {
		if _, gone := p.abandoned[key]; gone {
			continue
		}
		if _, benched := p.disabledUntil[key]; benched {
			continue
		}
		eligible = append(eligible, key)
	}

	p.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	return eligible
}

// MarkRateLimited benches a credential until its cooldown passes.
func (p *Pool) MarkRateLimited(credential string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabledUntil[credential] = p.now().Add(p.cooldown)
}

// MarkForbidden removes a credential for the rest of the process lifetime.
func (p *Pool) MarkForbidden(credential string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.abandoned[credential] = struct{}{}
	delete(p.disabledUntil, credential)
}

// Census reports the pool's state counts for monitoring.
func (p *Pool) Census() (active, cooling, abandoned int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for _, key := range p.credentials {
		if _, gone := p.abandoned[key]; gone {
			abandoned++
			continue
		}
		if until, benched := p.disabledUntil[key]; benched && until.After(now) {
			cooling++
			continue
		}
		active++
	}
	return active, cooling, abandoned
}

// SetClock overrides the pool's time source. Tests only.
func (p *Pool) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}
