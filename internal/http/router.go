package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scanrag/internal/handlers"
	"scanrag/internal/service"
	"scanrag/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService      service.ChatService
	DocumentService  service.DocumentService
	KnowledgeService service.KnowledgeService

	// VectorStore and CollectionName back the health check.
	VectorStore    vectorstore.VectorStore
	CollectionName string
	// ModelChecker is optional; when set /health also verifies the configured models.
	ModelChecker handlers.ModelChecker

	Version        string
	Models         handlers.Models
	MaxUploadBytes int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	info := handlers.NewInfoHandler(deps.Version, deps.Models)
	health := handlers.NewHealthHandler(deps.VectorStore, deps.CollectionName, deps.ModelChecker,
		deps.Models.OCRModel, deps.Models.ChatModel, deps.Models.EmbeddingModel)
	documents := handlers.NewDocumentHandler(deps.DocumentService, deps.MaxUploadBytes)
	knowledge := handlers.NewKnowledgeHandler(deps.KnowledgeService)

	r.Get("/", info.Root)
	r.Get("/models", info.ModelsInfo)
	r.Method(http.MethodGet, "/health", health)

	r.Post("/ocr", documents.OCR)
	r.Method(http.MethodPost, "/chat", handlers.NewChatHandler(deps.ChatService))

	r.Route("/knowledge-base", func(r chi.Router) {
		r.Post("/ingest", documents.Ingest)
		r.Get("/status", knowledge.Status)
		r.Delete("/clear", knowledge.Clear)
		r.Delete("/documents/{name}", knowledge.DeleteDocument)
		r.Get("/ingestions", knowledge.Ingestions)
	})

	return r
}
