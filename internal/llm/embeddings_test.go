package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewEmbeddingsClient(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:8080", "test-key", "test-model", 768)
	if client == nil {
		t.Fatal("NewEmbeddingsClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("NewEmbeddingsClient() BaseURL = %v, want http://localhost:8080", client.BaseURL)
	}
	if client.ExpectedSize != 768 {
		t.Errorf("NewEmbeddingsClient() ExpectedSize = %v, want 768", client.ExpectedSize)
	}
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		texts        []string
		expectedSize int
		serverResp   func(w http.ResponseWriter, r *http.Request)
		wantErr      bool
		wantCount    int
		check        func(t *testing.T, vecs [][]float32)
	}{
		{
			name:         "successful embedding",
			texts:        []string{"Hello", "World"},
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}

				var req EmbeddingsRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Model != "test-model" || len(req.Input) != 2 {
					t.Errorf("unexpected request %+v", req)
				}

				resp := EmbeddingsResponse{
					Data: []EmbeddingData{
						{Index: 0, Embedding: make([]float64, 4)},
						{Index: 1, Embedding: make([]float64, 4)},
					},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantCount: 2,
		},
		{
			name:         "out of order response is reordered by index",
			texts:        []string{"a", "b"},
			expectedSize: 2,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(EmbeddingsResponse{
					Data: []EmbeddingData{
						{Index: 1, Embedding: []float64{0, 1}},
						{Index: 0, Embedding: []float64{1, 0}},
					},
				})
			},
			wantCount: 2,
			check: func(t *testing.T, vecs [][]float32) {
				if vecs[0][0] != 1 || vecs[1][1] != 1 {
					t.Errorf("vectors not reordered: %v", vecs)
				}
			},
		},
		{
			name:         "empty input",
			texts:        []string{},
			expectedSize: 768,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				t.Error("server should not be called")
			},
			wantErr: true,
		},
		{
			name:         "wrong embedding count",
			texts:        []string{"Hello", "World"},
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(EmbeddingsResponse{
					Data: []EmbeddingData{{Embedding: make([]float64, 4)}},
				})
			},
			wantErr: true,
		},
		{
			name:         "wrong vector size",
			texts:        []string{"Hello"},
			expectedSize: 768,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(EmbeddingsResponse{
					Data: []EmbeddingData{{Embedding: make([]float64, 512)}},
				})
			},
			wantErr: true,
		},
		{
			name:         "unpinned size requires consistent vectors",
			texts:        []string{"a", "b"},
			expectedSize: 0,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(EmbeddingsResponse{
					Data: []EmbeddingData{
						{Index: 0, Embedding: make([]float64, 3)},
						{Index: 1, Embedding: make([]float64, 5)},
					},
				})
			},
			wantErr: true,
		},
		{
			name:         "bad status",
			texts:        []string{"Hello"},
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "test-key", "test-model", tt.expectedSize)
			vecs, err := client.EmbedTexts(context.Background(), tt.texts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EmbedTexts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(vecs) != tt.wantCount {
				t.Errorf("EmbedTexts() count = %d, want %d", len(vecs), tt.wantCount)
			}
			if tt.check != nil {
				tt.check(t, vecs)
			}
		})
	}
}

func TestEmbeddingsClient_Probe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(EmbeddingsResponse{
			Data: []EmbeddingData{{Embedding: make([]float64, 1024)}},
		})
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "", "bge", 0)
	size, err := client.Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if size != 1024 {
		t.Errorf("Probe() = %d, want 1024", size)
	}
	if client.ExpectedSize != 1024 {
		t.Errorf("Probe() did not pin ExpectedSize, got %d", client.ExpectedSize)
	}

	pinned := NewEmbeddingsClient(server.URL, "", "bge", 768)
	if _, err := pinned.Probe(context.Background()); err == nil {
		t.Error("Probe() expected mismatch error for pinned size 768")
	}
}
