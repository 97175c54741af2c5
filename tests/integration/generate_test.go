package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"wordforge/internal/credpool"
	"wordforge/internal/forge"
	"wordforge/internal/generator"
	"wordforge/internal/llm"
	"wordforge/internal/logger"
	sqlitestore "wordforge/internal/store/sqlite"
)

// fakeProvider mimics an OpenAI-style chat endpoint. It extracts the
// candidate array from the prompt and confirms the first candidate as a
// real word, rejecting the rest.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			t.Errorf("provider received malformed request: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		candidates := extractCandidates(req.Messages[0].Content)
		if len(candidates) == 0 {
			t.Error("provider received prompt without candidates")
			http.Error(w, "no candidates", http.StatusBadRequest)
			return
		}

		// Reply wrapped in a Markdown fence, like real models tend to.
		reply := fmt.Sprintf("```json\n[{\"word\": %q, \"definition\": \"测试释义\", \"source\": null}]\n```", candidates[0])
		resp := map[string]any{
			"choices": []map[string]any{
				{
					"message":       map[string]string{"role": "assistant", "content": reply},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

// extractCandidates finds the JSON string array embedded in the prompt.
func extractCandidates(prompt string) []string {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}
		var candidates []string
		if err := json.Unmarshal([]byte(line), &candidates); err == nil {
			return candidates
		}
	}
	return nil
}

func newPipeline(t *testing.T, providerURL string) (*forge.Service, *sqlitestore.Store) {
	t.Helper()
	log := logger.Nop()

	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "forge.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}

	pool := generator.NewCharPool(log)
	if err := pool.RegisterStrategy("static", generator.StaticStrategy("山海风月雷电")); err != nil {
		t.Fatalf("RegisterStrategy() error: %v", err)
	}
	if err := pool.Refresh(context.Background(), "static"); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	gen := generator.New(pool, generator.LengthWeights{2: 1.0}, store, store, log)

	creds, err := credpool.New([]string{"sk-integration"}, credpool.DefaultCooldown)
	if err != nil {
		t.Fatalf("credpool.New() error: %v", err)
	}
	client, err := llm.NewClient(llm.ClientOptions{
		Model:   "test-model",
		BaseURL: providerURL,
	}, log)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	retrier := llm.NewRetrier(creds, client, 1, log)

	return forge.NewService(gen, retrier, store, nil, "test-model", log), store
}

func TestGenerationRound_EndToEnd(t *testing.T) {
	provider := fakeProvider(t)
	defer provider.Close()

	svc, store := newPipeline(t, provider.URL)
	ctx := context.Background()

	words, reports := svc.RunRounds(ctx, 1, 5)

	if len(words) != 1 {
		t.Fatalf("words = %+v, want exactly one confirmed word", words)
	}
	if words[0].Definition != "测试释义" {
		t.Errorf("definition = %q, want 测试释义", words[0].Definition)
	}

	if len(reports) != 1 {
		t.Fatalf("reports = %+v, want one entry", reports)
	}
	rep := reports[0]
	if rep.Error != "" || rep.Unverified {
		t.Fatalf("report shows failure: %+v", rep)
	}
	if rep.Generated != 5 {
		t.Errorf("generated = %d, want 5", rep.Generated)
	}
	if len(rep.Valid) != 1 || len(rep.Invalid) != 4 {
		t.Errorf("valid/invalid = %d/%d, want 1/4", len(rep.Valid), len(rep.Invalid))
	}

	// Every candidate gets a verdict row, word or not.
	wordRows, nonWordRows, err := store.JudgedCounts(ctx)
	if err != nil {
		t.Fatalf("JudgedCounts() error: %v", err)
	}
	if wordRows != 1 || nonWordRows != 4 {
		t.Errorf("persisted counts = (%d, %d), want (1, 4)", wordRows, nonWordRows)
	}
}

func TestGenerationRounds_NeverRepeatCombinations(t *testing.T) {
	provider := fakeProvider(t)
	defer provider.Close()

	svc, store := newPipeline(t, provider.URL)
	ctx := context.Background()

	_, first := svc.RunRounds(ctx, 1, 5)
	_, second := svc.RunRounds(ctx, 1, 5)

	seen := make(map[string]bool)
	for _, rep := range first {
		for _, w := range rep.Valid {
			seen[w.Word] = true
		}
		for _, c := range rep.Invalid {
			seen[c] = true
		}
	}
	for _, rep := range second {
		for _, w := range rep.Valid {
			if seen[w.Word] {
				t.Errorf("combination %s presented twice", w.Word)
			}
		}
		for _, c := range rep.Invalid {
			if seen[c] {
				t.Errorf("combination %s presented twice", c)
			}
		}
	}

	// Ten verdicts across both rounds, no overwrites.
	words, nonWords, err := store.JudgedCounts(ctx)
	if err != nil {
		t.Fatalf("JudgedCounts() error: %v", err)
	}
	if words+nonWords != 10 {
		t.Errorf("total verdicts = %d, want 10", words+nonWords)
	}
}

func TestGenerationRound_ProviderFailurePersistsNothing(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer provider.Close()

	svc, store := newPipeline(t, provider.URL)
	ctx := context.Background()

	words, reports := svc.RunRounds(ctx, 1, 5)

	if len(words) != 0 {
		t.Errorf("words = %+v, want none on provider failure", words)
	}
	if len(reports) != 1 || !reports[0].Unverified || reports[0].Error == "" {
		t.Fatalf("report = %+v, want unverified with error", reports)
	}

	// Unverified candidates must stay eligible for future rounds.
	wordRows, nonWordRows, err := store.JudgedCounts(ctx)
	if err != nil {
		t.Fatalf("JudgedCounts() error: %v", err)
	}
	if wordRows+nonWordRows != 0 {
		t.Errorf("persisted %d verdicts, want 0", wordRows+nonWordRows)
	}
}
