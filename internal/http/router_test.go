package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"scanrag/internal/handlers"
	"scanrag/internal/knowledge"
	"scanrag/internal/service"
	servicemocks "scanrag/internal/service/mocks"
	"scanrag/internal/vectorstore"
	storemocks "scanrag/internal/vectorstore/mocks"
)

func newTestRouter(t *testing.T) (http.Handler, *servicemocks.MockKnowledgeService, *servicemocks.MockDocumentService, *storemocks.MockVectorStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	knowledgeSvc := servicemocks.NewMockKnowledgeService(ctrl)
	documentSvc := servicemocks.NewMockDocumentService(ctrl)
	store := storemocks.NewMockVectorStore(ctrl)

	router := NewRouter(&Deps{
		ChatService:      servicemocks.NewMockChatService(ctrl),
		DocumentService:  documentSvc,
		KnowledgeService: knowledgeSvc,
		VectorStore:      store,
		CollectionName:   "documents",
		Version:          "test",
		Models:           handlers.Models{OCRModel: "vision-1", ChatModel: "chat-1", EmbeddingModel: "embed-1"},
		MaxUploadBytes:   1 << 20,
	})
	return router, knowledgeSvc, documentSvc, store
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		setup      func(*servicemocks.MockKnowledgeService, *storemocks.MockVectorStore)
		wantStatus int
	}{
		{
			name:       "GET root",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET models",
			method:     http.MethodGet,
			path:       "/models",
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET health",
			method: http.MethodGet,
			path:   "/health",
			setup: func(k *servicemocks.MockKnowledgeService, s *storemocks.MockVectorStore) {
				s.EXPECT().GetCollectionInfo(gomock.Any(), "documents").Return(&vectorstore.CollectionInfo{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST chat exists",
			method:     http.MethodPost,
			path:       "/chat",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST ocr without file",
			method:     http.MethodPost,
			path:       "/ocr",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST ingest without file",
			method:     http.MethodPost,
			path:       "/knowledge-base/ingest",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "GET status",
			method: http.MethodGet,
			path:   "/knowledge-base/status",
			setup: func(k *servicemocks.MockKnowledgeService, s *storemocks.MockVectorStore) {
				k.EXPECT().Status(gomock.Any()).Return(knowledge.Status{IndexName: "documents"})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "DELETE clear",
			method: http.MethodDelete,
			path:   "/knowledge-base/clear",
			setup: func(k *servicemocks.MockKnowledgeService, s *storemocks.MockVectorStore) {
				k.EXPECT().Clear(gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "DELETE document",
			method: http.MethodDelete,
			path:   "/knowledge-base/documents/old%20scan.pdf",
			setup: func(k *servicemocks.MockKnowledgeService, s *storemocks.MockVectorStore) {
				k.EXPECT().DeleteDocument(gomock.Any(), gomock.Any()).Return(service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "GET ingestions",
			method: http.MethodGet,
			path:   "/knowledge-base/ingestions",
			setup: func(k *servicemocks.MockKnowledgeService, s *storemocks.MockVectorStore) {
				k.EXPECT().Ingestions(gomock.Any(), 0).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET chat not allowed",
			method:     http.MethodGet,
			path:       "/chat",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "GET ocr not allowed",
			method:     http.MethodGet,
			path:       "/ocr",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "GET ingest not allowed",
			method:     http.MethodGet,
			path:       "/knowledge-base/ingest",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/v1/ask",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, knowledgeSvc, _, store := newTestRouter(t)
			if tt.setup != nil {
				tt.setup(knowledgeSvc, store)
			}

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d (body %s)", tt.method, tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://ui.local")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
