package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"scanrag/internal/contextutil"
)

// Client is a client for an OpenAI-compatible chat completions API.
// It serves both text-only and vision (image_url) requests.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Client or EmbeddingsClient.
type Option func(*settings)

type settings struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLimiter makes every request wait on l before being sent.
// Share one limiter between clients that draw on the same provider quota.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *settings) {
		s.limiter = l
	}
}

// NewLimiter returns a token bucket for rps requests per second, or nil when rps <= 0.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func applyOptions(opts []Option) settings {
	s := settings{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewClient creates a new LLM client.
func NewClient(baseURL, apiKey, model string, opts ...Option) *Client {
	s := applyOptions(opts)
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  s.httpClient,
		limiter: s.limiter,
	}
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_completion_tokens,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
}

// ChatMessage is a message on the wire. Content is either a string or a list of parts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multi-part message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image by URL or data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// ChatChoiceMessage represents the message in a chat choice.
type ChatChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int               `json:"index"`
	Message      ChatChoiceMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
}

// ChatWithMessages sends a chat completion request built from messages and returns
// the content of the first choice, untrimmed.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	model := params.Model
	if model == "" {
		model = c.Model
	}

	payload := ChatRequest{
		Model:       model,
		Messages:    toWire(messages),
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	}

	var chatResp ChatResponse
	start := time.Now()
	if err := postJSON(ctx, c.client, c.limiter, endpoint(c.BaseURL, "/chat/completions"), c.APIKey, payload, &chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := chatResp.Choices[0].Message.Content
	logger.DebugContext(ctx, "chat completion finished",
		"model", model,
		"messages", len(messages),
		"finish_reason", chatResp.Choices[0].FinishReason,
		"content_length", len(content),
		"duration", time.Since(start),
	)
	return content, nil
}

func toWire(messages []Message) []ChatMessage {
	wire := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		if len(m.Images) == 0 {
			wire = append(wire, ChatMessage{Role: m.Role, Content: m.Content})
			continue
		}
		parts := make([]ContentPart, 0, len(m.Images)+1)
		if m.Content != "" {
			parts = append(parts, ContentPart{Type: "text", Text: m.Content})
		}
		for _, img := range m.Images {
			parts = append(parts, ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: img.DataURI()}})
		}
		wire = append(wire, ChatMessage{Role: m.Role, Content: parts})
	}
	return wire
}

// endpoint joins base and path, inserting the /v1 prefix unless base already ends with it.
func endpoint(base, path string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + path
}

// postJSON sends payload to url and decodes a 200 response into out.
// Any other status is returned as a *StatusError.
func postJSON(ctx context.Context, hc *http.Client, limiter *rate.Limiter, url, apiKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
