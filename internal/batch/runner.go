package batch

import (
	"context"
	"fmt"
	"os"
	"time"

	"scanrag/internal/contextutil"
	"scanrag/internal/service"
)

// Ingester indexes one document. service.DocumentService satisfies it.
type Ingester interface {
	Ingest(ctx context.Context, name string, data []byte) (service.IngestResult, error)
}

// Failure is a file that could not be ingested.
type Failure struct {
	Path string
	Err  error
}

// Summary totals a batch run.
type Summary struct {
	Files          int
	Succeeded      int
	PagesProcessed int
	ChunksAdded    int
	Failures       []Failure
	// Shadowed lists files whose base name matched an earlier file in the
	// same run. Chunks are keyed by base name, so each replaced the earlier one.
	Shadowed       []string
	Duration       time.Duration
}

// Runner ingests files one after another.
type Runner struct {
	ingester Ingester
	readFile func(string) ([]byte, error)
}

// NewRunner creates a Runner.
func NewRunner(ingester Ingester) *Runner {
	return &Runner{ingester: ingester, readFile: os.ReadFile}
}

// IngestFile reads and ingests a single file.
func (r *Runner) IngestFile(ctx context.Context, f ScannedFile) (service.IngestResult, error) {
	ctx = contextutil.With(ctx, "file", f.RelPath)
	data, err := r.readFile(f.AbsPath)
	if err != nil {
		return service.IngestResult{}, fmt.Errorf("failed to read %s: %w", f.AbsPath, err)
	}
	return r.ingester.Ingest(ctx, f.Name, data)
}

// Run ingests files sequentially. A failing file is logged and recorded, and the
// run continues. Only context cancellation stops it early.
func (r *Runner) Run(ctx context.Context, files []ScannedFile) (Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()
	summary := Summary{Files: len(files)}
	firstPath := make(map[string]string, len(files))

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		if prev, ok := firstPath[f.Name]; ok {
			logger.WarnContext(ctx, "file name repeats within scan, later file replaces earlier chunks",
				"file", f.RelPath, "pdf_name", f.Name, "first", prev)
			summary.Shadowed = append(summary.Shadowed, f.RelPath)
		} else {
			firstPath[f.Name] = f.RelPath
		}

		logger.InfoContext(ctx, "ingesting file", "file", f.RelPath, "n", i+1, "of", len(files))
		res, err := r.IngestFile(ctx, f)
		if err != nil {
			logger.ErrorContext(ctx, "failed to ingest file", "file", f.RelPath, "error", err)
			summary.Failures = append(summary.Failures, Failure{Path: f.RelPath, Err: err})
			continue
		}

		summary.Succeeded++
		summary.PagesProcessed += res.PagesProcessed
		summary.ChunksAdded += res.ChunksAdded
		logger.InfoContext(ctx, "file ingested", "file", f.RelPath, "pages", res.PagesProcessed, "chunks", res.ChunksAdded)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}
