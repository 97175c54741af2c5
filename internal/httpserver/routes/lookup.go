package routes

import (
	"github.com/go-chi/chi/v5"

	"wordforge/internal/httpserver/deps"
	"wordforge/internal/httpserver/handlers"
)

func init() { Register(registerLookup) }

func registerLookup(r chi.Router, d deps.Deps) {
	r.Get("/api/lookup", handlers.Lookup(d))
}
