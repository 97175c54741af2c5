package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"wordforge/internal/domain"
	"wordforge/internal/httpserver/deps"
	"wordforge/internal/logger"
)

const maxRoundsPerRequest = 10

type generateRequest struct {
	Rounds int `json:"rounds"` // optional, defaults to DefaultRounds
	Count  int `json:"count"`  // optional, candidates per round
}

type generateResponse struct {
	Words   []domain.VerifiedWord `json:"words"`
	Reports []domain.RoundReport  `json:"reports"`
}

// Generate runs one or more verification rounds and returns the confirmed
// words together with a per-round report.
func Generate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := generateRequest{Rounds: d.DefaultRounds, Count: defaultCount(d)}
		if r.Body != nil && r.ContentLength != 0 {
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		if req.Rounds == 0 {
			req.Rounds = d.DefaultRounds
		}
		if req.Count == 0 {
			req.Count = defaultCount(d)
		}

		if req.Rounds < 1 || req.Rounds > maxRoundsPerRequest {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("rounds must be between 1 and %d", maxRoundsPerRequest))
			return
		}
		if req.Count < 1 || req.Count > d.MaxCombinations {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("count must be between 1 and %d", d.MaxCombinations))
			return
		}

		d.Logger.Info("generate request",
			logger.Int("rounds", req.Rounds),
			logger.Int("count", req.Count))

		words, reports := d.Forge.RunRounds(r.Context(), req.Rounds, req.Count)

		if words == nil {
			words = []domain.VerifiedWord{}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(generateResponse{
			Words:   words,
			Reports: reports,
		})
	}
}

func defaultCount(d deps.Deps) int {
	if d.MaxCombinations < 3 {
		return d.MaxCombinations
	}
	return 3
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
