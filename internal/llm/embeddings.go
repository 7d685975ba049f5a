package llm

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"golang.org/x/time/rate"
)

// probeText is embedded once at startup to discover the model's vector size.
const probeText = "dimension probe"

// EmbeddingsClient is a client for an OpenAI-compatible embeddings API.
type EmbeddingsClient struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // Expected vector size for validation; 0 until probed
	client       *http.Client
	limiter      *rate.Limiter
}

// NewEmbeddingsClient creates a new embeddings client.
// expectedSize may be 0, in which case Probe discovers it.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int, opts ...Option) *EmbeddingsClient {
	s := applyOptions(opts)
	return &EmbeddingsClient{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       s.httpClient,
		limiter:      s.limiter,
	}
}

// EmbeddingsRequest represents the request payload for embeddings API.
type EmbeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingData represents a single embedding in the response.
type EmbeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingsResponse represents the response from the embeddings API.
type EmbeddingsResponse struct {
	Data []EmbeddingData `json:"data"`
}

// EmbedTexts generates embeddings for the given texts.
// Returns one float32 vector per input text, in input order.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	payload := EmbeddingsRequest{
		Model: c.Model,
		Input: texts,
	}

	var embeddingsResp EmbeddingsResponse
	if err := postJSON(ctx, c.client, c.limiter, endpoint(c.BaseURL, "/embeddings"), c.APIKey, payload, &embeddingsResp); err != nil {
		return nil, err
	}

	if len(embeddingsResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddingsResp.Data))
	}

	sort.SliceStable(embeddingsResp.Data, func(i, j int) bool {
		return embeddingsResp.Data[i].Index < embeddingsResp.Data[j].Index
	})

	size := c.ExpectedSize
	result := make([][]float32, len(embeddingsResp.Data))
	for i, data := range embeddingsResp.Data {
		if len(data.Embedding) == 0 {
			return nil, fmt.Errorf("embedding %d is empty", i)
		}
		if size == 0 {
			size = len(data.Embedding)
		}
		if len(data.Embedding) != size {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), size)
		}

		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[i] = vec
	}

	return result, nil
}

// Probe embeds a probe string and returns the model's vector size.
// When ExpectedSize is unset it is pinned to the probed size.
// Call once at startup, before the client is shared.
func (c *EmbeddingsClient) Probe(ctx context.Context) (int, error) {
	vecs, err := c.EmbedTexts(ctx, []string{probeText})
	if err != nil {
		return 0, fmt.Errorf("failed to probe embedding model: %w", err)
	}
	size := len(vecs[0])
	if c.ExpectedSize == 0 {
		c.ExpectedSize = size
	}
	return size, nil
}
