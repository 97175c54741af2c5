package routes

import (
	"github.com/go-chi/chi/v5"

	"wordforge/internal/httpserver/deps"
	"wordforge/internal/httpserver/handlers"
)

func init() { Register(registerRandom) }

func registerRandom(r chi.Router, d deps.Deps) {
	r.Get("/api/random", handlers.Random(d))
}
