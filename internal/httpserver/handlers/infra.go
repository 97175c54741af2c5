package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"wordforge/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	Characters  *int   `json:"characters,omitempty"`
	Terms       *int   `json:"terms,omitempty"`
	Words       *int   `json:"words,omitempty"`
	NonWords    *int   `json:"non_words,omitempty"`
	Active      *int   `json:"active,omitempty"`
	Cooling     *int   `json:"cooling,omitempty"`
	Abandoned   *int   `json:"abandoned,omitempty"`
	Cached      *int64 `json:"cached,omitempty"`
	LastRefresh string `json:"last_refresh,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"charpool":    checkCharPool(d),
			"database":    checkDatabase(ctx, d),
			"redis":       checkRedis(ctx, d),
			"credentials": checkCredentials(d),
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode summarizes component health. The database and character
// pool are required; redis and partial credential loss only degrade.
func determineMode(components map[string]componentStatus) string {
	if db, ok := components["database"]; ok && !db.OK {
		return "critical"
	}
	if cp, ok := components["charpool"]; ok && !cp.OK {
		return "critical"
	}
	if creds, ok := components["credentials"]; ok && !creds.OK {
		return "exhausted"
	}
	if rd, ok := components["redis"]; ok && !rd.OK {
		return "degraded"
	}
	return "operational"
}

func checkCharPool(d deps.Deps) componentStatus {
	size := d.CharPool.Size()
	lastRefresh := "never"
	if t := d.CharPool.LastRefresh(); !t.IsZero() {
		lastRefresh = t.Format("2006-01-02 15:04:05")
	}
	return componentStatus{
		OK:          size > 0,
		Characters:  &size,
		LastRefresh: lastRefresh,
	}
}

func checkDatabase(ctx context.Context, d deps.Deps) componentStatus {
	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "generation-disabled",
			Error:  err.Error(),
		}
	}

	status := componentStatus{OK: true}
	if terms, err := d.Store.TermCount(ctx); err == nil {
		status.Terms = &terms
	}
	if words, nonWords, err := d.Store.JudgedCounts(ctx); err == nil {
		status.Words = &words
		status.NonWords = &nonWords
	}
	return status
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     true, // cache is optional, absent is not a failure
			Impact: "judged-set-cache-disabled",
		}
	}

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "duplicate-lookups-hit-database",
			Error:  "timeout",
		}
	}

	status := componentStatus{
		OK:     true,
		Impact: "judged-set-cache-enabled",
	}
	if d.Journal != nil {
		if cached, err := d.Journal.JudgedCount(ctx); err == nil {
			status.Cached = &cached
		}
	}
	return status
}

func checkCredentials(d deps.Deps) componentStatus {
	active, cooling, abandoned := d.CredPool.Census()
	return componentStatus{
		OK:        active+cooling > 0,
		Active:    &active,
		Cooling:   &cooling,
		Abandoned: &abandoned,
	}
}
