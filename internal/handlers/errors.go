package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"scanrag/internal/contextutil"
	"scanrag/internal/service"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Human-readable error message
	Error string `json:"error"`
}

// StatusResponse acknowledges a destructive operation.
//
// swagger:model StatusResponse
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	PDFName string `json:"pdf_name,omitempty"`
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation failed", "field", validationErr.Field, "error", validationErr.Message)
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, defaultMsg+": "+err.Error())
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg+": "+err.Error())
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
