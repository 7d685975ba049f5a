package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_service.go -package=mocks -mock_names=KnowledgeService=MockKnowledgeService scanrag/internal/service KnowledgeService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_base.go -package=mocks scanrag/internal/service KnowledgeBase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scanrag/internal/contextutil"
	"scanrag/internal/knowledge"
	"scanrag/internal/storage"
	"scanrag/internal/vectorstore"
)

// KnowledgeBase is the subset of *knowledge.Base the service uses.
type KnowledgeBase interface {
	Status(ctx context.Context) knowledge.Status
	Clear(ctx context.Context) error
	DeleteDocument(ctx context.Context, name string) error
	Ingestions(ctx context.Context, limit int) ([]storage.Ingestion, error)
}

// KnowledgeService manages the indexed documents.
type KnowledgeService interface {
	// Status summarizes the index. It never fails; problems are reported in Status.Error.
	Status(ctx context.Context) knowledge.Status
	// Clear removes every indexed chunk.
	Clear(ctx context.Context) error
	// DeleteDocument removes every chunk of one document.
	DeleteDocument(ctx context.Context, name string) error
	// Ingestions lists recent ingestion runs, newest first.
	Ingestions(ctx context.Context, limit int) ([]storage.Ingestion, error)
}

type knowledgeService struct {
	base KnowledgeBase
}

// NewKnowledgeService creates a new KnowledgeService.
func NewKnowledgeService(base KnowledgeBase) KnowledgeService {
	return &knowledgeService{base: base}
}

func (s *knowledgeService) Status(ctx context.Context) knowledge.Status {
	status := s.base.Status(ctx)
	if status.PDFs == nil {
		status.PDFs = map[string]vectorstore.DocumentInfo{}
	}
	return status
}

func (s *knowledgeService) Clear(ctx context.Context) error {
	if err := s.base.Clear(ctx); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to clear knowledge base", "error", err)
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	return nil
}

func (s *knowledgeService) DeleteDocument(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "Document name is required"}
	}
	if err := s.base.DeleteDocument(ctx, name); err != nil {
		if errors.Is(err, knowledge.ErrDocumentNotFound) {
			return fmt.Errorf("document %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	return nil
}

func (s *knowledgeService) Ingestions(ctx context.Context, limit int) ([]storage.Ingestion, error) {
	if limit < 0 {
		return nil, &ValidationError{Field: "limit", Message: "limit must not be negative"}
	}
	if limit == 0 {
		limit = storage.DefaultIngestionLimit
	}
	recs, err := s.base.Ingestions(ctx, limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []storage.Ingestion{}
	}
	return recs, nil
}
