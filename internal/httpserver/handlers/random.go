package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"wordforge/internal/httpserver/deps"
	"wordforge/internal/logger"
)

// Random serves one lexicon entry drawn at random, optionally restricted to
// a single source file via ?source=.
func Random(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := strings.TrimSpace(r.URL.Query().Get("source"))

		term, err := d.Store.RandomTerm(r.Context(), source)
		if err != nil {
			d.Logger.Error("random term draw failed",
				logger.String("source", source),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "random draw failed")
			return
		}
		if term == nil {
			writeError(w, http.StatusNotFound, "lexicon has no matching entries")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(term)
	}
}
