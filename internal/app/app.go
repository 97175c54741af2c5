package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"wordforge/internal/config"
	"wordforge/internal/credpool"
	"wordforge/internal/forge"
	"wordforge/internal/generator"
	"wordforge/internal/httpserver"
	"wordforge/internal/httpserver/deps"
	"wordforge/internal/llm"
	"wordforge/internal/logger"
	"wordforge/internal/redis"
	"wordforge/internal/scheduler"
	redisstore "wordforge/internal/store/redis"
	sqlitestore "wordforge/internal/store/sqlite"
	"wordforge/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	store       *sqlitestore.Store
	redisClient *goredis.Client
	reloader    *scheduler.CharPoolReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// SQLite is the authoritative store - fail fast if unavailable
	loggerClient.Infof("Opening database at %s", cfg.SQLitePath)
	store, err := sqlitestore.Open(cfg.SQLitePath)
	if err != nil {
		loggerClient.Errorf("Failed to open database: %v", err)
		os.Exit(1)
	}
	if err := store.Migrate(context.Background()); err != nil {
		loggerClient.Errorf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Redis mirrors the judged set; absence only slows duplicate checks
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		redisClient, err = redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Warnf("Redis unavailable, judged-set cache disabled: %v", err)
			redisClient = nil
		} else {
			loggerClient.Info("Redis initialized successfully")
		}
	} else {
		loggerClient.Info("Redis not configured, judged-set cache disabled")
	}

	// Journal answers "already judged?"; prefer the cache when available
	var journal generator.LogOracle = store
	var cache forge.JudgedCache
	var cacheJournal *redisstore.Journal
	if redisClient != nil {
		cacheJournal = redisstore.NewJournal(redisClient, store, loggerClient)
		journal = cacheJournal
		cache = cacheJournal
	}

	// Character pool with its population strategies
	charPool := generator.NewCharPool(loggerClient)
	mustRegister(loggerClient, charPool, "lexicon", store.AllDistinctCharacters)
	mustRegister(loggerClient, charPool, "static", generator.StaticStrategy(cfg.StaticChars))
	if err := charPool.Validate(cfg.CharStrategy); err != nil {
		loggerClient.Errorf("Invalid character pool strategy: %v", err)
		os.Exit(1)
	}

	gen := generator.New(charPool, generator.LengthWeights(cfg.LengthWeights), store, journal, loggerClient)

	// Credential pool and provider client
	creds, err := credpool.New(cfg.APIKeys, cfg.KeyCooldown)
	if err != nil {
		loggerClient.Errorf("Failed to build credential pool: %v", err)
		os.Exit(1)
	}
	client, err := llm.NewClient(llm.ClientOptions{
		Model:    cfg.Model,
		BaseURL:  cfg.APIBaseURL,
		ProxyURL: cfg.ProxyURL,
		Timeout:  cfg.RequestTimeout,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to build provider client: %v", err)
		os.Exit(1)
	}
	retrier := llm.NewRetrier(creds, client, cfg.MaxAttempts, loggerClient)

	svc := forge.NewService(gen, retrier, store, cache, cfg.ModelTag, loggerClient)

	// Create manual refresh trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCharPoolReloader(
		charPool,
		cfg.CharStrategy,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		Forge:           svc,
		Store:           store,
		RedisClient:     redisClient,
		Journal:         cacheJournal,
		CharPool:        charPool,
		CredPool:        creds,
		ReloadTrigger:   reloadTrigger,
		DefaultRounds:   cfg.DefaultRounds,
		MaxCombinations: cfg.MaxCombinations,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		store:       store,
		redisClient: redisClient,
		reloader:    reloader,
	}
}

func mustRegister(log logger.Logger, pool *generator.CharPool, name string, s generator.Strategy) {
	if err := pool.RegisterStrategy(name, s); err != nil {
		log.Errorf("Failed to register strategy %s: %v", name, err)
		os.Exit(1)
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting WordForge v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("WordForge %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start character pool reloader (populates pool and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start character pool reloader: %w", err)
	}
	a.logger.Info("character pool reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop reloader
	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close database: %v", err)
	}

	a.logger.Info("✅ WordForge stopped cleanly")
	return nil
}
