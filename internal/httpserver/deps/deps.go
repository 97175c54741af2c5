package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"wordforge/internal/credpool"
	"wordforge/internal/domain"
	"wordforge/internal/generator"
	"wordforge/internal/logger"
	redisstore "wordforge/internal/store/redis"
	sqlitestore "wordforge/internal/store/sqlite"
)

// Runner drives verification rounds. Satisfied by forge.Service; handlers
// depend on the interface so tests can script outcomes.
type Runner interface {
	RunRounds(ctx context.Context, rounds, perRound int) ([]domain.VerifiedWord, []domain.RoundReport)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Forge         Runner              // round orchestrator
	Store         *sqlitestore.Store  // lexicon + verdict log
	RedisClient   *redis.Client       // nil when the judged-set cache is disabled
	Journal       *redisstore.Journal // nil when the judged-set cache is disabled
	CharPool      *generator.CharPool // character pool snapshot for /infra
	CredPool      *credpool.Pool      // credential census for /infra
	ReloadTrigger chan struct{}       // channel to trigger manual character pool refresh

	DefaultRounds   int // rounds per generate request when the body omits it
	MaxCombinations int // per-round candidate cap
}
