// Package app builds the object graph shared by the API server and the ingest CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"scanrag/internal/config"
	"scanrag/internal/contextutil"
	"scanrag/internal/handlers"
	"scanrag/internal/http"
	"scanrag/internal/indexer"
	"scanrag/internal/journal"
	"scanrag/internal/knowledge"
	"scanrag/internal/llm"
	"scanrag/internal/objectstore"
	"scanrag/internal/ocr"
	"scanrag/internal/pdfdoc"
	"scanrag/internal/rag"
	"scanrag/internal/service"
	"scanrag/internal/storage"
	"scanrag/internal/vectorstore"
)

const modelCheckTimeout = 5 * time.Second

// App holds the wired components.
type App struct {
	Config    *config.Config
	Dimension int

	Store     vectorstore.VectorStore
	Index     *vectorstore.Index
	Knowledge *knowledge.Base
	Retriever *rag.Retriever
	Catalog   *llm.ModelCatalog

	Documents        service.DocumentService
	Chat             service.ChatService
	KnowledgeService service.KnowledgeService

	closers []func() error
}

// New connects to every backing service and wires the components.
// On error, everything opened so far is closed.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	logger := contextutil.LoggerFromContext(ctx)
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	opts := []llm.Option{
		llm.WithTimeout(cfg.InferenceTimeout),
		llm.WithLimiter(llm.NewLimiter(cfg.InferenceRPS, cfg.InferenceBurst)),
	}
	chatClient := llm.NewClient(cfg.BaseURL, cfg.APIKey, cfg.ChatModel, opts...)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.APIKey, cfg.EmbeddingModel, cfg.VectorSize, opts...)
	a.Catalog = llm.NewModelCatalog(cfg.BaseURL, cfg.APIKey, llm.WithTimeout(modelCheckTimeout))

	dim, err := embedder.Probe(ctx)
	if err != nil {
		return nil, err
	}
	a.Dimension = dim
	logger.InfoContext(ctx, "embedding model probed", "model", cfg.EmbeddingModel, "vector_size", dim)

	store, closeStore, err := openVectorStore(cfg)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, closeStore)

	if err := store.EnsureCollection(ctx, cfg.IndexName, dim); err != nil {
		return nil, fmt.Errorf("failed to ensure collection %s: %w", cfg.IndexName, err)
	}
	logger.InfoContext(ctx, "vector store ready", "backend", cfg.VectorBackend, "collection", cfg.IndexName)

	db, err := openDatabase(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	a.Index = vectorstore.NewIndex(store, cfg.IndexName, cfg.UpsertBatchSize)
	a.Knowledge = knowledge.New(a.Index, storage.NewMetaRepo(db), storage.NewIngestionRepo(db))

	chunker, err := indexer.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	fingerprint := indexer.Fingerprint(cfg.EmbeddingModel, dim, chunker)
	if err := a.Knowledge.EnsureEmbeddingModel(ctx, cfg.EmbeddingModel, dim, fingerprint); err != nil {
		return nil, err
	}

	j, err := journal.Open(cfg.AuditLogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit journal: %w", err)
	}
	a.closers = append(a.closers, j.Close)

	var archive service.Archiver
	if cfg.ArchiveEnabled() {
		minioArchive, err := objectstore.NewMinioArchive(ctx, objectstore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			logger.WarnContext(ctx, "archive of originals disabled", "endpoint", cfg.MinioEndpoint, "error", err)
		} else {
			archive = minioArchive
		}
	}

	a.Documents = service.NewDocumentService(
		newPipeline(cfg, chatClient),
		indexer.NewIndexer(chunker, embedder, cfg.EmbeddingModel, a.Index, cfg.EmbedBatchSize),
		a.Knowledge,
		archive,
		j,
	)

	a.Retriever = rag.NewRetriever(embedder, a.Index, cfg.TopK, cfg.SourceMaxChars)
	engine := rag.NewEngine(a.Retriever, rag.NewGenerator(chatClient, cfg.ChatModel, cfg.AnswerMaxTokens))
	a.Chat = service.NewChatService(engine, j)
	a.KnowledgeService = service.NewKnowledgeService(a.Knowledge)

	return a, nil
}

// newPipeline builds the OCR pipeline. Correction and its structure guard are optional.
func newPipeline(cfg *config.Config, model *llm.Client) *ocr.Pipeline {
	vision := ocr.NewVisionClient(model, cfg.OCRModel, cfg.OCRMaxTokens, ocr.RetryPolicy{
		MaxAttempts: cfg.OCRMaxAttempts,
		BaseDelay:   cfg.OCRBackoffBase,
	})

	var corrector ocr.TextCorrector
	if cfg.CorrectionEnabled {
		var guard *ocr.StructureGuard
		if cfg.CorrectionStructureGuard {
			guard = ocr.NewStructureGuard()
		}
		corrector = ocr.NewCorrector(model, cfg.ChatModel, guard)
	}

	return ocr.NewPipeline(pdfdoc.NewRenderer(cfg.DPIScale, cfg.JPEGQuality), vision, corrector, cfg.OCRConcurrency)
}

func openVectorStore(cfg *config.Config) (vectorstore.VectorStore, func() error, error) {
	switch cfg.VectorBackend {
	case "chromem":
		store, err := vectorstore.NewChromemStore(cfg.ChromemPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	default:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantUseTLS)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := storage.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// Router returns the HTTP API.
func (a *App) Router(version string) nethttp.Handler {
	return http.NewRouter(&http.Deps{
		ChatService:      a.Chat,
		DocumentService:  a.Documents,
		KnowledgeService: a.KnowledgeService,
		VectorStore:      a.Store,
		CollectionName:   a.Config.IndexName,
		ModelChecker:     a.Catalog,
		Version:          version,
		Models: handlers.Models{
			OCRModel:       a.Config.OCRModel,
			ChatModel:      a.Config.ChatModel,
			EmbeddingModel: a.Config.EmbeddingModel,
		},
		MaxUploadBytes: a.Config.MaxUploadMB << 20,
	})
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
