package routes

import (
	"github.com/go-chi/chi/v5"

	"wordforge/internal/httpserver/deps"
	"wordforge/internal/httpserver/handlers"
	"wordforge/internal/httpserver/mw"
)

func init() { Register(registerGenerate) }

func registerGenerate(r chi.Router, d deps.Deps) {
	// Each round spends provider quota, keep the bucket small.
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:           3,
		RefillPerMinute: 6,
		MaxEntries:      4096,
	})
	r.With(limit).Post("/api/generate", handlers.Generate(d))
}
