package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is Groq's OpenAI-compatible API root.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

const maxErrorBody = 512

// Request is a single chat-style completion: one system and one user message.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration // 0 = rely on the caller's context only
}

// Client sends a completion request and returns the raw reply text.
// Implementations do not retry, cache or rate limit.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// HTTPDoer abstracts the HTTP client so tests can point at httptest servers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenAIClient calls an OpenAI-compatible chat completions endpoint
// (Groq, OpenAI, Ollama, LM Studio, vLLM...).
type OpenAIClient struct {
	baseURL string   // e.g. "https://api.groq.com/openai/v1"
	model   string   // e.g. "llama-3.1-8b-instant"
	apiKey  string   // sent as a bearer token
	client  HTTPDoer // reused across calls
}

// Compile-time check: *OpenAIClient satisfies the Client interface.
var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client for the given endpoint. A nil doer uses a
// plain http.Client; deadlines come from Request.Timeout and the caller's context.
func NewOpenAIClient(baseURL, model, apiKey string, doer HTTPDoer) *OpenAIClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if doer == nil {
		doer = &http.Client{}
	}
	return &OpenAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  strings.TrimSpace(apiKey),
		client:  doer,
	}
}

// Configured reports whether the client holds an API credential.
func (c *OpenAIClient) Configured() bool {
	return c.apiKey != ""
}

// Model returns the model name sent with every request.
func (c *OpenAIClient) Model() string {
	return c.model
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one request and returns choices[0].message.content.
func (c *OpenAIClient) Complete(ctx context.Context, r Request) (string, error) {
	if !c.Configured() {
		return "", &ConfigurationError{Reason: "API key is not set"}
	}
	if strings.TrimSpace(c.model) == "" {
		return "", &ConfigurationError{Reason: "model is not set"}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	messages := make([]chatMessage, 0, 2)
	if r.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: r.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: r.UserPrompt})

	jsonData, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classify(ctx, r.Timeout, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(ctx, r.Timeout, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), maxErrorBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", &TransportError{Err: ErrEmptyCompletion}
	}

	return chatResp.Choices[0].Message.Content, nil
}

// classify maps a failed round trip onto TimeoutError or TransportError.
func classify(ctx context.Context, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{After: timeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{After: timeout, Err: err}
	}
	return &TransportError{Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
