package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"wordforge/internal/domain"
	"wordforge/internal/httpserver/deps"
	"wordforge/internal/logger"
)

type lookupResponse struct {
	Query   string        `json:"query"`
	Matches []domain.Term `json:"matches"`
}

// Lookup returns the lexicon rows matching a term exactly. Several sources
// may define the same term, so the response carries a list.
func Lookup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter q")
			return
		}

		matches, err := d.Store.LookupExact(r.Context(), query)
		if err != nil {
			d.Logger.Error("lexicon lookup failed",
				logger.String("query", query),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return
		}

		if len(matches) == 0 {
			writeError(w, http.StatusNotFound, "term not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(lookupResponse{
			Query:   query,
			Matches: matches,
		})
	}
}
