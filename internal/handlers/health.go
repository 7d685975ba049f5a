package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"scanrag/internal/contextutil"
	"scanrag/internal/vectorstore"
)

// ModelChecker reports configured models the inference provider does not offer.
// *llm.ModelCatalog satisfies it.
type ModelChecker interface {
	Missing(ctx context.Context, want ...string) ([]string, error)
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        vectorstore.VectorStore
	collectionName     string
	models             ModelChecker
	modelIDs           []string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. models may be nil to skip the
// inference provider check.
func NewHealthHandler(vectorStore vectorstore.VectorStore, collectionName string, models ModelChecker, modelIDs ...string) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		collectionName:     collectionName,
		models:             models,
		modelIDs:           modelIDs,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// The vector store is required: when it is unreachable the service is unhealthy (503).
// Model problems only degrade the service (200).
//
// swagger:route GET /health healthCheck
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: System is healthy or degraded
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: Vector store unavailable
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	status := "healthy"
	httpStatus := http.StatusOK

	if h.checkVectorStore(checkCtx, logger) {
		checks["vector_store"] = "ok"
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	if h.models != nil {
		missing, err := h.models.Missing(checkCtx, h.modelIDs...)
		switch {
		case err != nil:
			logger.WarnContext(ctx, "model catalog check failed", "error", err)
			checks["models"] = "error"
			issues = append(issues, "inference_provider_unavailable")
		case len(missing) > 0:
			checks["models"] = "missing: " + strings.Join(missing, ", ")
			issues = append(issues, "models_unavailable")
		default:
			checks["models"] = "ok"
		}
		if checks["models"] != "ok" && status == "healthy" {
			status = "degraded"
		}
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}

// checkVectorStore checks if the vector store is accessible.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	if _, err := h.vectorStore.GetCollectionInfo(ctx, h.collectionName); err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "collection", h.collectionName, "error", err)
		return false
	}
	return true
}
