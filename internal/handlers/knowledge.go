package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scanrag/internal/service"
)

// KnowledgeHandler serves the knowledge base management endpoints.
type KnowledgeHandler struct {
	knowledgeService service.KnowledgeService
}

// NewKnowledgeHandler creates a new KnowledgeHandler.
func NewKnowledgeHandler(knowledgeService service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

// Status reports the indexed documents. It answers 200 even when the index is
// unreachable; the body's error field says why.
//
// swagger:route GET /knowledge-base/status knowledgeStatus
func (h *KnowledgeHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.knowledgeService.Status(r.Context()))
}

// Clear removes every document.
//
// swagger:route DELETE /knowledge-base/clear knowledgeClear
func (h *KnowledgeHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.knowledgeService.Clear(ctx); err != nil {
		handleServiceError(ctx, w, err, "Failed to clear knowledge base")
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "cleared", Message: "All documents removed"})
}

// DeleteDocument removes one document by name.
//
// swagger:route DELETE /knowledge-base/documents/{name} knowledgeDeleteDocument
func (h *KnowledgeHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	if err := h.knowledgeService.DeleteDocument(ctx, name); err != nil {
		handleServiceError(ctx, w, err, "Failed to delete document")
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted", PDFName: name})
}

// Ingestions lists recent ingestion runs. ?limit=N bounds the result.
//
// swagger:route GET /knowledge-base/ingestions knowledgeIngestions
func (h *KnowledgeHandler) Ingestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	recs, err := h.knowledgeService.Ingestions(ctx, limit)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list ingestions")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
