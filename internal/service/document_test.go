package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanrag/internal/contextutil"
	"scanrag/internal/indexer"
	"scanrag/internal/journal"
	"scanrag/internal/ocr"
	"scanrag/internal/pdfdoc/pdftest"
	"scanrag/internal/service"
	"scanrag/internal/storage"
)

type stubPipeline struct {
	results []ocr.PageResult
	err     error
	calls   int
}

func (p *stubPipeline) ProcessDocument(ctx context.Context, data []byte) ([]ocr.PageResult, error) {
	p.calls++
	return p.results, p.err
}

type recordingIndexer struct {
	name  string
	pages []indexer.Page
	res   indexer.IngestResult
	err   error
}

func (ix *recordingIndexer) IngestDocument(ctx context.Context, name string, pages []indexer.Page) (indexer.IngestResult, error) {
	ix.name = name
	ix.pages = pages
	return ix.res, ix.err
}

type recordingRecorder struct {
	recs []*storage.Ingestion
}

func (r *recordingRecorder) RecordIngestion(ctx context.Context, rec *storage.Ingestion) error {
	r.recs = append(r.recs, rec)
	return nil
}

type recordingArchive struct {
	names []string
	err   error
}

func (a *recordingArchive) Store(ctx context.Context, name string, data []byte) (string, error) {
	a.names = append(a.names, name)
	return "2026/10/18/" + name, a.err
}

func twoPageResults() []ocr.PageResult {
	return []ocr.PageResult{
		{PageNumber: 1, Text: "Hello World", RawText: "Helo World"},
		{PageNumber: 2, Text: ocr.Sentinel(errors.New("timeout")), OCRErr: errors.New("timeout")},
	}
}

func TestDocumentService_OCR(t *testing.T) {
	pipeline := &stubPipeline{results: twoPageResults()}
	idx := &recordingIndexer{res: indexer.IngestResult{DocumentName: "scan.pdf", PagesProcessed: 1, ChunksAdded: 1}}
	rec := &recordingRecorder{}
	archive := &recordingArchive{}
	svc := service.NewDocumentService(pipeline, idx, rec, archive, journal.Nop())

	pages, err := svc.OCR(testContext(), "scan.pdf", pdftest.Build("Hello World", "second"))
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, service.PageText{PageNumber: 1, Text: "Hello World"}, pages[0])
	assert.Equal(t, 2, pages[1].PageNumber)
	assert.True(t, ocr.IsSentinel(pages[1].Text))

	assert.Equal(t, "scan.pdf", idx.name)
	assert.Equal(t, []indexer.Page{{Number: 1, Text: "Hello World"}}, idx.pages, "degraded pages are not indexed")
	assert.Equal(t, []string{"scan.pdf"}, archive.names)

	require.Len(t, rec.recs, 1)
	assert.Equal(t, storage.StatusSuccess, rec.recs[0].Status)
	assert.Equal(t, 2, rec.recs[0].PagesTotal)
	assert.Equal(t, 1, rec.recs[0].PagesDegraded)
	assert.Equal(t, 1, rec.recs[0].ChunksAdded)
}

func TestDocumentService_OCRIndexFailureIsNotFatal(t *testing.T) {
	pipeline := &stubPipeline{results: twoPageResults()}
	idx := &recordingIndexer{err: errors.New("vector store unavailable")}
	rec := &recordingRecorder{}
	svc := service.NewDocumentService(pipeline, idx, rec, nil, journal.Nop())

	pages, err := svc.OCR(testContext(), "scan.pdf", pdftest.Build("a", "b"))
	require.NoError(t, err)
	assert.Len(t, pages, 2)

	require.Len(t, rec.recs, 1)
	assert.Equal(t, storage.StatusFailed, rec.recs[0].Status)
	assert.Equal(t, "vector store unavailable", rec.recs[0].Error)
}

func TestDocumentService_Ingest(t *testing.T) {
	pipeline := &stubPipeline{results: twoPageResults()}
	idx := &recordingIndexer{res: indexer.IngestResult{DocumentName: "scan.pdf", PagesProcessed: 1, ChunksAdded: 3}}
	svc := service.NewDocumentService(pipeline, idx, nil, nil, journal.Nop())

	res, err := svc.Ingest(testContext(), "scan.pdf", pdftest.Build("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, service.IngestResult{Status: "success", PDFName: "scan.pdf", PagesProcessed: 1, ChunksAdded: 3}, res)
}

func TestDocumentService_IngestIndexFailure(t *testing.T) {
	pipeline := &stubPipeline{results: twoPageResults()}
	idx := &recordingIndexer{err: errors.New("embedding service down")}
	svc := service.NewDocumentService(pipeline, idx, nil, nil, journal.Nop())

	_, err := svc.Ingest(testContext(), "scan.pdf", pdftest.Build("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrExternalService)
}

// loggingPipeline logs through the context logger like the real page tasks do.
type loggingPipeline struct {
	stubPipeline
}

func (p *loggingPipeline) ProcessDocument(ctx context.Context, data []byte) ([]ocr.PageResult, error) {
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "page processed", "page", 1)
	return p.stubPipeline.ProcessDocument(ctx, data)
}

func TestDocumentService_LogsCarryDocumentName(t *testing.T) {
	var buf bytes.Buffer
	ctx := contextutil.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	pipeline := &loggingPipeline{stubPipeline{results: twoPageResults()}}
	idx := &recordingIndexer{res: indexer.IngestResult{DocumentName: "scan.pdf", PagesProcessed: 1, ChunksAdded: 1}}
	svc := service.NewDocumentService(pipeline, idx, nil, nil, journal.Nop())

	_, err := svc.Ingest(ctx, "scan.pdf", pdftest.Build("a", "b"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Contains(t, line, "pdf_name=scan.pdf")
	}
	assert.Contains(t, buf.String(), `msg="page processed"`)
}

func TestDocumentService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		wantMsg string
	}{
		{
			name:    "wrong extension",
			file:    "notes.txt",
			data:    pdftest.Build("a"),
			wantMsg: "Only PDF files are accepted",
		},
		{
			name: "not a pdf",
			file: "fake.pdf",
			data: []byte("just some text"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &stubPipeline{}
			svc := service.NewDocumentService(pipeline, &recordingIndexer{}, nil, nil, journal.Nop())

			_, err := svc.OCR(testContext(), tt.file, tt.data)
			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "file", ve.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ve.Message)
			}
			assert.Zero(t, pipeline.calls, "pipeline must not run for rejected uploads")
		})
	}
}

func TestDocumentService_PipelineFailure(t *testing.T) {
	pipeline := &stubPipeline{err: errors.New("cannot open document")}
	svc := service.NewDocumentService(pipeline, &recordingIndexer{}, nil, nil, journal.Nop())

	_, err := svc.OCR(testContext(), "scan.pdf", pdftest.Build("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot open document")
	assert.NotErrorIs(t, err, service.ErrInvalidInput)
}

func TestDocumentService_ArchiveFailureIsNotFatal(t *testing.T) {
	pipeline := &stubPipeline{results: twoPageResults()[:1]}
	archive := &recordingArchive{err: errors.New("bucket gone")}
	idx := &recordingIndexer{res: indexer.IngestResult{PagesProcessed: 1, ChunksAdded: 1}}
	svc := service.NewDocumentService(pipeline, idx, nil, archive, journal.Nop())

	_, err := svc.Ingest(testContext(), "scan.pdf", pdftest.Build("a"))
	require.NoError(t, err)
	assert.Len(t, archive.names, 1)
}
