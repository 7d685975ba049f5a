package handlers

import "net/http"

// Models lists the configured model ids.
type Models struct {
	OCRModel       string `json:"ocr_model"`
	ChatModel      string `json:"chat_model"`
	EmbeddingModel string `json:"embedding_model"`
}

// InfoResponse describes the service.
type InfoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
	Models    Models            `json:"models"`
}

// InfoHandler serves static service metadata.
type InfoHandler struct {
	version string
	models  Models
}

// NewInfoHandler creates a new InfoHandler.
func NewInfoHandler(version string, models Models) *InfoHandler {
	return &InfoHandler{version: version, models: models}
}

// Root returns the service description.
func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:    "scanrag",
		Version: h.version,
		Status:  "running",
		Endpoints: map[string]string{
			"ocr":             "POST /ocr",
			"chat":            "POST /chat",
			"ingest":          "POST /knowledge-base/ingest",
			"status":          "GET /knowledge-base/status",
			"clear":           "DELETE /knowledge-base/clear",
			"delete_document": "DELETE /knowledge-base/documents/{name}",
			"ingestions":      "GET /knowledge-base/ingestions",
			"health":          "GET /health",
			"models":          "GET /models",
		},
		Models: h.models,
	})
}

// ModelsInfo returns the configured model ids.
func (h *InfoHandler) ModelsInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.models)
}
