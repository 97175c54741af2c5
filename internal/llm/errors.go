package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialsExhausted means no credential in the pool is eligible;
	// further attempts in the same window cannot possibly succeed.
	ErrCredentialsExhausted = errors.New("llm: all credentials exhausted")

	// ErrAttemptsFailed means every retry attempt failed without a more
	// specific error being recorded.
	ErrAttemptsFailed = errors.New("llm: all request attempts failed")
)

// PermissionError reports a 401/403 for one credential. The credential is
// bad, not the attempt; the caller should abandon the key and move on.
type PermissionError struct {
	StatusCode int
	Credential string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("llm: permission denied (%d) for key %s", e.StatusCode, keyHint(e.Credential))
}

// RateLimitError reports a 429 for one credential.
type RateLimitError struct {
	Credential string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("llm: rate limited (429) for key %s", keyHint(e.Credential))
}

// ResponseError reports any non-success status that is neither a permission
// nor a rate-limit signal. Retried with another credential.
type ResponseError struct {
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("llm: provider returned status %d", e.StatusCode)
}

// NetworkError wraps transport-level failures (timeout, connection reset).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("llm: network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// keyHint renders the last four characters of a credential for logs.
// Secrets never appear whole in log output.
func keyHint(key string) string {
	if len(key) <= 4 {
		return "..." + key
	}
	return "..." + key[len(key)-4:]
}
