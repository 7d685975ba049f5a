// Package knowledge is the facade over the document index and its
// bookkeeping: status, deletion, the embedding model pin and ingestion history.
package knowledge

import (
	"context"
	"errors"
	"fmt"

	"scanrag/internal/contextutil"
	"scanrag/internal/storage"
	"scanrag/internal/vectorstore"
)

var (
	// ErrEmbeddingModelMismatch is returned when a non-empty index was built
	// with a different embedding model or vector size than configured.
	ErrEmbeddingModelMismatch = errors.New("embedding model mismatch")
	// ErrDocumentNotFound is returned when deleting a document the index does not hold.
	ErrDocumentNotFound = errors.New("document not found")
)

// MetaStore persists the embedding model pin.
type MetaStore interface {
	Get(ctx context.Context, collection string) (*storage.IndexMeta, error)
	Put(ctx context.Context, meta *storage.IndexMeta) error
}

// IngestionStore persists the ingestion history.
type IngestionStore interface {
	Insert(ctx context.Context, rec *storage.Ingestion) error
	List(ctx context.Context, limit int) ([]storage.Ingestion, error)
	DeleteByPDF(ctx context.Context, pdfName string) error
}

// Status is the knowledge base summary. When the index cannot be read,
// counts are zero and Error carries the reason.
type Status struct {
	TotalVectors int                                 `json:"total_vectors"`
	IndexName    string                              `json:"index_name"`
	Dimension    int                                 `json:"dimension"`
	PDFCount     int                                 `json:"pdf_count"`
	PDFs         map[string]vectorstore.DocumentInfo `json:"pdfs"`
	Error        string                              `json:"error,omitempty"`
}

// Base wraps the index with its metadata stores.
type Base struct {
	index      *vectorstore.Index
	meta       MetaStore
	ingestions IngestionStore
}

// New creates a Base.
func New(index *vectorstore.Index, meta MetaStore, ingestions IngestionStore) *Base {
	return &Base{index: index, meta: meta, ingestions: ingestions}
}

// Status reports index statistics and the indexed documents.
func (b *Base) Status(ctx context.Context) Status {
	logger := contextutil.LoggerFromContext(ctx)
	status := Status{
		IndexName: b.index.Name(),
		PDFs:      map[string]vectorstore.DocumentInfo{},
	}

	stats, err := b.index.Stats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read index stats", "error", err)
		status.Error = err.Error()
		return status
	}
	docs, err := b.index.ListDocuments(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		status.Error = err.Error()
		return status
	}

	status.TotalVectors = stats.TotalVectors
	status.Dimension = stats.Dimension
	status.PDFs = docs
	status.PDFCount = len(docs)
	return status
}

// Clear removes every vector. The ingestion history is kept.
func (b *Base) Clear(ctx context.Context) error {
	return b.index.Clear(ctx)
}

// DeleteDocument removes a document's chunks and its ingestion history.
func (b *Base) DeleteDocument(ctx context.Context, name string) error {
	docs, err := b.index.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if _, ok := docs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	if err := b.index.DeleteDocument(ctx, name); err != nil {
		return err
	}
	if err := b.ingestions.DeleteByPDF(ctx, name); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to delete ingestion history", "pdf_name", name, "error", err)
	}
	return nil
}

// RecordIngestion appends to the ingestion history.
func (b *Base) RecordIngestion(ctx context.Context, rec *storage.Ingestion) error {
	return b.ingestions.Insert(ctx, rec)
}

// Ingestions returns recent ingestion runs, newest first.
func (b *Base) Ingestions(ctx context.Context, limit int) ([]storage.Ingestion, error) {
	return b.ingestions.List(ctx, limit)
}

// EnsureEmbeddingModel checks the configured model against the pin stored for
// the collection. A model or dimension change is an error while the index holds
// vectors; an empty index is re-pinned. A fingerprint-only change is re-pinned
// with a warning, since chunks from older builds remain searchable.
func (b *Base) EnsureEmbeddingModel(ctx context.Context, model string, dimension int, fingerprint string) error {
	logger := contextutil.LoggerFromContext(ctx)
	want := &storage.IndexMeta{
		Collection:     b.index.Name(),
		EmbeddingModel: model,
		Dimension:      dimension,
		Fingerprint:    fingerprint,
	}

	pin, err := b.meta.Get(ctx, want.Collection)
	if errors.Is(err, storage.ErrNotFound) {
		if err := b.checkIndexModel(ctx, model); err != nil {
			return err
		}
		logger.InfoContext(ctx, "pinning embedding model", "collection", want.Collection, "model", model, "dimension", dimension)
		return b.meta.Put(ctx, want)
	}
	if err != nil {
		return err
	}

	if pin.EmbeddingModel != model || pin.Dimension != dimension {
		stats, err := b.index.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to read index stats: %w", err)
		}
		if stats.TotalVectors > 0 {
			return fmt.Errorf("%w: index %q holds %d vectors from %s (%d dims), configured %s (%d dims); clear the index or restore the model",
				ErrEmbeddingModelMismatch, want.Collection, stats.TotalVectors,
				pin.EmbeddingModel, pin.Dimension, model, dimension)
		}
		logger.WarnContext(ctx, "re-pinning empty index to new embedding model",
			"collection", want.Collection, "old_model", pin.EmbeddingModel, "new_model", model)
		return b.meta.Put(ctx, want)
	}

	if pin.Fingerprint != fingerprint {
		logger.WarnContext(ctx, "index build parameters changed; existing chunks were built differently",
			"collection", want.Collection, "old_fingerprint", pin.Fingerprint, "new_fingerprint", fingerprint)
		return b.meta.Put(ctx, want)
	}
	return nil
}

// checkIndexModel compares model with the one recorded in the stored chunks.
// It covers a missing pin over a shared or pre-existing collection.
func (b *Base) checkIndexModel(ctx context.Context, model string) error {
	rec, found, err := b.index.FirstRecord(ctx)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	stored := vectorstore.MetaString(rec.Meta, vectorstore.MetaEmbeddingModel)
	if stored == "" {
		stored = "an unknown model"
	}
	if stored != model {
		return fmt.Errorf("%w: index %q holds vectors from %s, configured %s; clear the index or restore the model",
			ErrEmbeddingModelMismatch, b.index.Name(), stored, model)
	}
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "embedding model pin missing, restoring it from the index",
		"collection", b.index.Name(), "model", model)
	return nil
}
