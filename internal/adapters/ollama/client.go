// Package ollama calls a locally hosted language model to produce
// free-text justifications for recommendations. The call is best
// effort: every failure mode degrades to "no explanation" and must
// never block or fail the deterministic ranking.
package ollama

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/stride/internal/domain/model"
)

// Request tuning constants, kept low to suit a local model.
const (
	defaultTemperature = 0.2
	defaultTopP        = 0.9
	defaultContextSize = 2048
)

// Explainer produces a free-text justification for one candidate.
type Explainer interface {
	Explain(ctx context.Context, shoe model.Shoe, prefs model.Preferences) (string, error)
}

// Client is an Explainer backed by an Ollama /api/chat endpoint.
type Client struct {
	host        string
	model       string
	temperature float64
	httpClient  *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) {
		if t >= 0 {
			c.temperature = t
		}
	}
}

// NewClient creates an Ollama client. The caller bounds each call with
// a context deadline; the HTTP client itself carries no timeout.
func NewClient(host, modelName string, opts ...Option) *Client {
	c := &Client{
		host:        strings.TrimRight(host, "/"),
		model:       modelName,
		temperature: defaultTemperature,
		httpClient:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chatRequest mirrors the Ollama /api/chat schema.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumCtx      int     `json:"num_ctx"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Explain asks the model for a short justification of the candidate
// against the runner's preferences.
func (c *Client) Explain(ctx context.Context, shoe model.Shoe, prefs model.Preferences) (string, error) {
	system, user := buildPrompt(shoe, prefs)

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
		Options: chatOptions{
			Temperature: c.temperature,
			TopP:        defaultTopP,
			NumCtx:      defaultContextSize,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: http status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	text := strings.TrimSpace(parsed.Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion after %s", ErrMalformed, time.Since(start))
	}
	return text, nil
}

// Noop is an Explainer that always reports unavailability. Used when
// explanations are disabled and in tests.
type Noop struct{}

// Explain always returns ErrUnavailable.
func (Noop) Explain(ctx context.Context, shoe model.Shoe, prefs model.Preferences) (string, error) {
	return "", ErrUnavailable
}
