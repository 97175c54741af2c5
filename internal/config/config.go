package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SQLitePath     string        // path to the lexicon + verdict database
	LexiconDir     string        // directory holding lexicon yaml source files (import tool)
	CharStrategy   string        // "lexicon" | "static"
	StaticChars    string        // seed characters for the "static" strategy
	ReloadInterval time.Duration // interval to refresh the character pool (default: 24h)

	// LLM provider
	Model           string          // ex: "gpt-4o-mini"
	APIBaseURL      string          // OpenAI-compatible endpoint base, without trailing path
	APIKeys         []string        // one or more credentials, comma separated in env
	ProxyURL        string          // optional forward proxy for provider calls
	RequestTimeout  time.Duration   // per-request timeout (default: 180s)
	MaxAttempts     int             // retry rounds over the credential pool (default: 3)
	KeyCooldown     time.Duration   // rate-limit cooldown per credential (default: 30m)
	ModelTag        string          // recorded in the verdict log; defaults to Model
	LengthWeights   map[int]float64 // combination length distribution
	MaxCombinations int             // per-round candidate cap (default: 10)
	DefaultRounds   int             // rounds per generate request when unspecified (default: 1)

	// Redis (optional, empty addr = cache disabled)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // initial wait between retries (ex: 2s, grows exponentially)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FORGE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("FORGE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("FORGE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FORGE_PRETTY_LOG", true),

		// Lexicon and character pool
		SQLitePath:     getenv("FORGE_SQLITE_PATH", "/app/data/wordforge.db"),
		LexiconDir:     getenv("FORGE_LEXICON_DIR", "/app/lexicon"),
		CharStrategy:   getenv("FORGE_CHAR_STRATEGY", "lexicon"),
		StaticChars:    getenv("FORGE_STATIC_CHARS", ""),
		ReloadInterval: mustDuration("FORGE_RELOAD_INTERVAL", 24*time.Hour),

		// LLM provider
		Model:           requireEnv("FORGE_MODEL"),
		APIBaseURL:      requireEnv("FORGE_API_BASE_URL"),
		APIKeys:         requireEnvSlice("FORGE_API_KEYS"),
		ProxyURL:        getenv("FORGE_PROXY_URL", ""),
		RequestTimeout:  mustDuration("FORGE_REQUEST_TIMEOUT", 180*time.Second),
		MaxAttempts:     getenvInt("FORGE_MAX_ATTEMPTS", 3),
		KeyCooldown:     mustDuration("FORGE_KEY_COOLDOWN", 30*time.Minute),
		ModelTag:        getenv("FORGE_MODEL_TAG", ""),
		LengthWeights:   mustWeights("FORGE_LENGTH_WEIGHTS", defaultWeights()),
		MaxCombinations: getenvInt("FORGE_MAX_COMBINATIONS", 10),
		DefaultRounds:   getenvInt("FORGE_DEFAULT_ROUNDS", 1),

		// Redis settings
		RedisAddr:           getenv("FORGE_REDIS_ADDR", ""),
		RedisUser:           getenv("FORGE_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("FORGE_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("FORGE_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
	}

	if cfg.ModelTag == "" {
		cfg.ModelTag = cfg.Model
	}

	if cfg.CharStrategy == "static" && cfg.StaticChars == "" {
		panic("❌ FATAL: FORGE_STATIC_CHARS is required when FORGE_CHAR_STRATEGY=static")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.APIKeys = []string{"***REDACTED***"}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func defaultWeights() map[int]float64 {
	return map[int]float64{2: 0.80, 3: 0.05, 4: 0.15}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return splitAndTrim(v)
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustWeights parses a length weight spec such as "2:0.8,4:0.15,3:0.05".
// Weights must be positive and lengths at least 1; a malformed spec panics
// rather than silently skewing generation.
func mustWeights(key string, def map[int]float64) map[int]float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	weights, err := ParseWeights(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid value for %s: %v", key, err))
	}
	return weights
}

// ParseWeights converts "length:weight" pairs into a distribution map.
func ParseWeights(spec string) (map[int]float64, error) {
	weights := make(map[int]float64)
	for _, pair := range splitAndTrim(spec) {
		length, weight, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("missing ':' in %q", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(length))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid length in %q", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("invalid weight in %q", pair)
		}
		if _, dup := weights[n]; dup {
			return nil, fmt.Errorf("duplicate length %d", n)
		}
		weights[n] = w
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("empty weight spec")
	}
	return weights, nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
