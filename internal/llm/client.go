package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wordforge/internal/logger"
)

const chatCompletionsPath = "/chat/completions"

// DefaultTimeout bounds one provider call end to end.
const DefaultTimeout = 180 * time.Second

// Response is the decoded outcome of one successful provider call.
type Response struct {
	Text         string
	FinishReason string
	Usage        Usage
}

// Usage echoes the provider's token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// ClientOptions configures a provider client.
type ClientOptions struct {
	Model    string
	BaseURL  string
	ProxyURL string        // optional outbound HTTP proxy, e.g. "http://10.0.0.1:7890"
	Timeout  time.Duration // per-call timeout, DefaultTimeout when zero
	Defaults GenerationParams
}

// Client performs single chat-completion calls against an OpenAI-style
// provider and classifies each outcome. It holds no retry policy and no
// credential state; both belong to the retry orchestrator and the pool.
type Client struct {
	model    string
	baseURL  string
	http     *http.Client
	defaults GenerationParams
	log      logger.Logger
}

// NewClient builds a provider client. An invalid proxy URL is an error:
// silently skipping the proxy could leak traffic onto the open network.
func NewClient(opts ClientOptions, log logger.Logger) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("llm: invalid proxy url %q: %w", opts.ProxyURL, err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Client{
		model:    opts.Model,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     &http.Client{Timeout: timeout, Transport: transport},
		defaults: opts.Defaults,
		log:      log,
	}, nil
}

// Execute performs exactly one POST to {base_url}/chat/completions with the
// given credential and classifies the result:
//
//	200        -> first choice's message content
//	401 / 403  -> *PermissionError (the credential is bad)
//	429        -> *RateLimitError (the credential is over quota)
//	other      -> *ResponseError carrying the status code
//
// Transport failures come back as *NetworkError.
func (c *Client) Execute(ctx context.Context, credential, prompt string, params GenerationParams) (*Response, error) {
	body, err := c.buildPayload(prompt, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	switch {
	case res.StatusCode == http.StatusOK:
		return decodeResponse(res.Body)
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, &PermissionError{StatusCode: res.StatusCode, Credential: credential}
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Credential: credential}
	default:
		return nil, &ResponseError{StatusCode: res.StatusCode}
	}
}

func (c *Client) buildPayload(prompt string, params GenerationParams) ([]byte, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	c.defaults.merged(params).applyTo(payload)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal payload: %w", err)
	}
	return body, nil
}

func decodeResponse(r io.Reader) (*Response, error) {
	var decoded chatResponse
	if err := json.NewDecoder(r).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("llm: response contained no choices")
	}
	first := decoded.Choices[0]
	return &Response{
		Text:         first.Message.Content,
		FinishReason: first.FinishReason,
		Usage:        decoded.Usage,
	}, nil
}
