package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
)

// ModelInfo is one entry of the provider's model catalog.
type ModelInfo struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// ModelsResponse represents the response from the /models endpoint.
type ModelsResponse struct {
	Data []ModelInfo `json:"data"`
}

// ModelCatalog queries which models an OpenAI-compatible server offers.
type ModelCatalog struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewModelCatalog creates a catalog client for baseURL.
func NewModelCatalog(baseURL, apiKey string, opts ...Option) *ModelCatalog {
	s := applyOptions(opts)
	return &ModelCatalog{baseURL: baseURL, apiKey: apiKey, client: s.httpClient}
}

// List returns the ids of every model the server reports.
func (m *ModelCatalog) List(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(m.baseURL, "/models"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create models request: %w", err)
	}
	if m.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", m.apiKey))
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var models ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}

	ids := make([]string, 0, len(models.Data))
	for _, model := range models.Data {
		ids = append(ids, model.ID)
	}
	return ids, nil
}

// Missing returns the entries of want that the server does not offer.
func (m *ModelCatalog) Missing(ctx context.Context, want ...string) ([]string, error) {
	have, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, id := range want {
		if id != "" && !slices.Contains(have, id) && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
