package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"scanrag/internal/vectorstore"
	"scanrag/internal/vectorstore/mocks"
)

type stubModels struct {
	missing []string
	err     error
}

func (s stubModels) Missing(ctx context.Context, want ...string) ([]string, error) {
	return s.missing, s.err
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		models     ModelChecker
		wantStatus int
		wantHealth string
		wantIssues int
	}{
		{
			name:       "healthy without model check",
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "healthy with models",
			models:     stubModels{},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "vector store down",
			storeErr:   errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantIssues: 1,
		},
		{
			name:       "model missing degrades",
			models:     stubModels{missing: []string{"embed-1"}},
			wantStatus: http.StatusOK,
			wantHealth: "degraded",
			wantIssues: 1,
		},
		{
			name:       "provider unreachable and store down",
			storeErr:   errors.New("connection refused"),
			models:     stubModels{err: errors.New("dial tcp")},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantIssues: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockVectorStore(ctrl)
			if tt.storeErr != nil {
				store.EXPECT().GetCollectionInfo(gomock.Any(), "documents").Return(nil, tt.storeErr)
			} else {
				store.EXPECT().GetCollectionInfo(gomock.Any(), "documents").Return(&vectorstore.CollectionInfo{VectorSize: 4}, nil)
			}

			handler := NewHealthHandler(store, "documents", tt.models, "ocr-1", "embed-1")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantHealth)
			}
			if len(resp.Issues) != tt.wantIssues {
				t.Errorf("Issues = %v, want %d", resp.Issues, tt.wantIssues)
			}
			if resp.Timestamp == "" {
				t.Error("Timestamp is empty")
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewHealthHandler(mocks.NewMockVectorStore(ctrl), "documents", nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
