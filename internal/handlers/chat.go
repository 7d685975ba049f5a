package handlers

import (
	"encoding/json"
	"net/http"

	"scanrag/internal/contextutil"
	"scanrag/internal/rag"
	"scanrag/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ServeHTTP answers the latest user message of a conversation.
//
// The request body is the full history as a JSON array of {role, content}.
//
// swagger:route POST /chat chat
//
// # Chat with the knowledge base
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Answer with sources
//	'400':
//	  description: Invalid history
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Inference or vector store failure
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var history []rag.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&history); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.chatService.Chat(ctx, history)
	if err != nil {
		handleServiceError(ctx, w, err, "Chat failed")
		return
	}
	if resp.Sources == nil {
		resp.Sources = []rag.Source{}
	}

	writeJSON(w, http.StatusOK, resp)
}
