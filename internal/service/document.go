package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks -mock_names=DocumentService=MockDocumentService scanrag/internal/service DocumentService

import (
	"context"
	"errors"
	"fmt"

	"scanrag/internal/contextutil"
	"scanrag/internal/indexer"
	"scanrag/internal/journal"
	"scanrag/internal/ocr"
	"scanrag/internal/pdfdoc"
	"scanrag/internal/storage"
)

// OCRPipeline extracts the text of every page of a PDF.
type OCRPipeline interface {
	ProcessDocument(ctx context.Context, data []byte) ([]ocr.PageResult, error)
}

// DocumentIndexer stores page text in the knowledge base.
type DocumentIndexer interface {
	IngestDocument(ctx context.Context, documentName string, pages []indexer.Page) (indexer.IngestResult, error)
}

// IngestionRecorder keeps the ingestion history.
type IngestionRecorder interface {
	RecordIngestion(ctx context.Context, rec *storage.Ingestion) error
}

// Archiver keeps a copy of uploaded originals.
type Archiver interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// PageText is the OCR output of one page.
type PageText struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// IngestResult summarizes a knowledge base ingestion.
type IngestResult struct {
	Status         string `json:"status"`
	PDFName        string `json:"pdf_name"`
	PagesProcessed int    `json:"pages_processed"`
	ChunksAdded    int    `json:"chunks_added"`
}

// DocumentService turns uploaded PDFs into text and indexed chunks.
type DocumentService interface {
	// OCR returns the text of every page and indexes the document as a side effect.
	OCR(ctx context.Context, name string, data []byte) ([]PageText, error)
	// Ingest runs OCR and indexes the document, reporting the indexing result.
	Ingest(ctx context.Context, name string, data []byte) (IngestResult, error)
}

type documentService struct {
	pipeline OCRPipeline
	indexer  DocumentIndexer
	recorder IngestionRecorder
	archive  Archiver
	journal  *journal.Journal
}

// NewDocumentService creates a new DocumentService. archive and j may be nil.
func NewDocumentService(pipeline OCRPipeline, idx DocumentIndexer, recorder IngestionRecorder, archive Archiver, j *journal.Journal) DocumentService {
	return &documentService{
		pipeline: pipeline,
		indexer:  idx,
		recorder: recorder,
		archive:  archive,
		journal:  j,
	}
}

// OCR processes an uploaded PDF. Indexing failures are logged, not returned.
func (s *documentService) OCR(ctx context.Context, name string, data []byte) ([]PageText, error) {
	ctx = contextutil.With(ctx, "pdf_name", name)
	logger := contextutil.LoggerFromContext(ctx)

	results, err := s.extract(ctx, name, data)
	if err != nil {
		return nil, err
	}

	pages := make([]PageText, len(results))
	for i, r := range results {
		pages[i] = PageText{PageNumber: r.PageNumber, Text: r.Text}
	}

	if _, err := s.index(ctx, name, results); err != nil {
		logger.ErrorContext(ctx, "failed to index document after OCR", "error", err)
		s.journal.Error("/ocr", err.Error(), map[string]any{"filename": name, "stage": "index"})
	}
	return pages, nil
}

// Ingest processes an uploaded PDF and indexes it.
func (s *documentService) Ingest(ctx context.Context, name string, data []byte) (IngestResult, error) {
	ctx = contextutil.With(ctx, "pdf_name", name)
	results, err := s.extract(ctx, name, data)
	if err != nil {
		return IngestResult{}, err
	}

	res, err := s.index(ctx, name, results)
	if err != nil {
		s.journal.Error("/knowledge-base/ingest", err.Error(), map[string]any{"filename": name})
		return IngestResult{}, fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	return IngestResult{
		Status:         "success",
		PDFName:        name,
		PagesProcessed: res.PagesProcessed,
		ChunksAdded:    res.ChunksAdded,
	}, nil
}

// extract validates the upload, archives it and runs the OCR pipeline.
func (s *documentService) extract(ctx context.Context, name string, data []byte) ([]ocr.PageResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !pdfdoc.HasPDFExtension(name) {
		return nil, &ValidationError{Field: "file", Message: "Only PDF files are accepted"}
	}
	info, err := pdfdoc.Inspect(data)
	if err != nil {
		if errors.Is(err, pdfdoc.ErrNotPDF) {
			return nil, &ValidationError{Field: "file", Message: fmt.Sprintf("Invalid PDF file: %v", err)}
		}
		return nil, err
	}

	if s.archive != nil {
		if _, err := s.archive.Store(ctx, name, data); err != nil {
			logger.WarnContext(ctx, "failed to archive original", "error", err)
		}
	}

	logger.InfoContext(ctx, "starting OCR", "pages", info.PageCount)
	results, err := s.pipeline.ProcessDocument(ctx, data)
	if err != nil {
		s.journal.Error("/ocr", err.Error(), map[string]any{"filename": name, "stage": "ocr"})
		return nil, err
	}

	degraded := 0
	for _, r := range results {
		meta := map[string]any{"degraded": r.Degraded(), "corrected": r.Corrected()}
		if r.Degraded() {
			degraded++
			meta["cause"] = r.OCRErr.Error()
		} else if r.CorrectionErr != nil {
			meta["cause"] = r.CorrectionErr.Error()
		}
		s.journal.OCR(name, r.PageNumber, r.Text, meta)
	}
	logger.InfoContext(ctx, "OCR completed", "pages", len(results), "degraded", degraded)
	return results, nil
}

// index stores the non-degraded pages and records the run.
func (s *documentService) index(ctx context.Context, name string, results []ocr.PageResult) (indexer.IngestResult, error) {
	pages := make([]indexer.Page, 0, len(results))
	degraded := 0
	for _, r := range results {
		if r.Degraded() {
			degraded++
			continue
		}
		pages = append(pages, indexer.Page{Number: r.PageNumber, Text: r.Text})
	}

	res, err := s.indexer.IngestDocument(ctx, name, pages)

	rec := &storage.Ingestion{
		PDFName:        name,
		PagesTotal:     len(results),
		PagesProcessed: res.PagesProcessed,
		PagesDegraded:  degraded,
		ChunksAdded:    res.ChunksAdded,
		Status:         storage.StatusSuccess,
	}
	if err != nil {
		rec.Status = storage.StatusFailed
		rec.Error = err.Error()
	}
	if s.recorder != nil {
		if recErr := s.recorder.RecordIngestion(ctx, rec); recErr != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record ingestion", "error", recErr)
		}
	}
	return res, err
}
