package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"wordforge/internal/credpool"
	"wordforge/internal/logger"
)

// scriptedExecutor returns a canned outcome per credential and counts calls.
type scriptedExecutor struct {
	outcomes map[string]error // nil = success
	calls    []string
}

func (s *scriptedExecutor) Execute(_ context.Context, credential, _ string, _ GenerationParams) (*Response, error) {
	s.calls = append(s.calls, credential)
	if err := s.outcomes[credential]; err != nil {
		return nil, err
	}
	return &Response{Text: "ok from " + credential}, nil
}

func newPool(t *testing.T, keys ...string) *credpool.Pool {
	t.Helper()
	pool, err := credpool.New(keys, time.Hour)
	if err != nil {
		t.Fatalf("credpool.New failed: %v", err)
	}
	return pool
}

func TestRun_SucceedsWithinOneAttemptAcrossRateLimitedKeys(t *testing.T) {
	pool := newPool(t, "k1", "k2", "k3")
	exec := &scriptedExecutor{outcomes: map[string]error{
		"k1": &RateLimitError{Credential: "k1"},
		"k2": &RateLimitError{Credential: "k2"},
		// k3 succeeds
	}}

	var slept []time.Duration
	r := NewRetrier(pool, exec, 3, logger.Nop())
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	res, err := r.Run(context.Background(), "p", nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Text != "ok from k3" {
		t.Errorf("result = %q, want success from k3", res.Text)
	}
	if len(slept) != 0 {
		t.Errorf("backoff slept %v, want no sleep within a single attempt", slept)
	}
	// The batch is shuffled, so anywhere from 0 to 2 keys were tried and
	// benched before k3 answered, but none may be abandoned.
	_, cooling, abandoned := pool.Census()
	if cooling > 2 || abandoned != 0 {
		t.Errorf("pool census cooling=%d abandoned=%d, want cooling<=2 abandoned=0", cooling, abandoned)
	}
}

func TestRun_AllForbidden_NoBackoffSleep(t *testing.T) {
	pool := newPool(t, "k1", "k2")
	pool.MarkForbidden("k1")
	pool.MarkForbidden("k2")

	exec := &scriptedExecutor{}
	var slept []time.Duration
	r := NewRetrier(pool, exec, 5, logger.Nop())
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := r.Run(context.Background(), "p", nil)
	if !errors.Is(err, ErrCredentialsExhausted) {
		t.Fatalf("error = %v, want ErrCredentialsExhausted", err)
	}
	if len(slept) != 0 {
		t.Errorf("backoff slept %v, want none", slept)
	}
	if len(exec.calls) != 0 {
		t.Errorf("executor called %d times, want 0", len(exec.calls))
	}
}

func TestRun_PermissionDenied_AbandonsKeyAndContinues(t *testing.T) {
	pool := newPool(t, "bad", "good")
	exec := &scriptedExecutor{outcomes: map[string]error{
		"bad": &PermissionError{StatusCode: 403, Credential: "bad"},
	}}

	r := NewRetrier(pool, exec, 1, logger.Nop())
	r.sleep = func(time.Duration) {}

	res, err := r.Run(context.Background(), "p", nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Text != "ok from good" {
		t.Errorf("result = %q, want success from good key", res.Text)
	}

	// The bad key must be gone for good.
	_, _, abandoned := pool.Census()
	if abandoned != 1 {
		t.Errorf("abandoned keys = %d, want 1", abandoned)
	}
}

func TestRun_ExponentialBackoffBetweenAttempts(t *testing.T) {
	pool := newPool(t, "k1")
	exec := &scriptedExecutor{outcomes: map[string]error{
		"k1": &ResponseError{StatusCode: 502},
	}}

	var slept []time.Duration
	r := NewRetrier(pool, exec, 3, logger.Nop())
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := r.Run(context.Background(), "p", nil)
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("error = %v, want the last *ResponseError", err)
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("backoff[%d] = %v, want %v", i, slept[i], want[i])
		}
	}
	if len(exec.calls) != 3 {
		t.Errorf("executor called %d times, want 3", len(exec.calls))
	}
}

func TestRun_PoolEmptiedMidFlight_RaisesLastError(t *testing.T) {
	pool := newPool(t, "k1")
	exec := &scriptedExecutor{outcomes: map[string]error{
		"k1": &PermissionError{StatusCode: 401, Credential: "k1"},
	}}

	r := NewRetrier(pool, exec, 3, logger.Nop())
	r.sleep = func(time.Duration) {}

	_, err := r.Run(context.Background(), "p", nil)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("error = %v, want the recorded *PermissionError", err)
	}
	if len(exec.calls) != 1 {
		t.Errorf("executor called %d times, want 1 (pool empty afterwards)", len(exec.calls))
	}
}
