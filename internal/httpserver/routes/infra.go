package routes

import (
	"github.com/go-chi/chi/v5"

	"wordforge/internal/httpserver/deps"
	"wordforge/internal/httpserver/handlers"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/infra", handlers.Infra(d))
}
