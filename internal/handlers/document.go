package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"scanrag/internal/contextutil"
	"scanrag/internal/service"
)

const uploadField = "file"

// DocumentHandler handles PDF uploads.
type DocumentHandler struct {
	documentService service.DocumentService
	maxUploadBytes  int64
}

// NewDocumentHandler creates a new DocumentHandler. Request bodies larger than
// maxUploadBytes are rejected.
func NewDocumentHandler(documentService service.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// OCR returns the text of every page of the uploaded PDF.
//
// swagger:route POST /ocr ocr
//
// # Transcribe a scanned PDF
//
// The document is also added to the knowledge base.
//
// ---
// consumes:
// - multipart/form-data
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: One entry per page
//	'400':
//	  description: Missing or invalid PDF
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DocumentHandler) OCR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	pages, err := h.documentService.OCR(ctx, name, data)
	if err != nil {
		handleServiceError(ctx, w, err, "OCR processing failed")
		return
	}
	if pages == nil {
		pages = []service.PageText{}
	}
	writeJSON(w, http.StatusOK, pages)
}

// Ingest runs OCR on the uploaded PDF and indexes it.
//
// swagger:route POST /knowledge-base/ingest ingest
//
// # Add a scanned PDF to the knowledge base
//
// ---
// consumes:
// - multipart/form-data
// produces:
// - application/json
func (h *DocumentHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	res, err := h.documentService.Ingest(ctx, name, data)
	if err != nil {
		handleServiceError(ctx, w, err, "Ingestion failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// readUpload reads the multipart file field. On failure it has already written the response.
func (h *DocumentHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(ctx, "upload too large", "limit", tooLarge.Limit)
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the upload limit of %d bytes", tooLarge.Limit))
			return "", nil, false
		}
		logger.WarnContext(ctx, "missing upload", "error", err)
		writeError(w, http.StatusBadRequest, "A PDF file is required in form field 'file'")
		return "", nil, false
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return "", nil, false
	}

	name := filepath.Base(header.Filename)
	logger.InfoContext(ctx, "received upload", "filename", name, "bytes", len(data))
	return name, data, true
}
