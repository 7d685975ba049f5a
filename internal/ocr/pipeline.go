package ocr

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"scanrag/internal/contextutil"
	"scanrag/internal/pdfdoc"
)

// Rasterizer opens PDF documents for page rendering.
type Rasterizer interface {
	Open(data []byte) (pdfdoc.Pages, error)
}

// Extractor transcribes one page image.
type Extractor interface {
	Extract(ctx context.Context, img pdfdoc.Image) TextResult
}

// TextCorrector post-processes a transcription.
type TextCorrector interface {
	Correct(ctx context.Context, text string) TextResult
}

// Pipeline runs rasterize, OCR and correction for every page of a document concurrently.
type Pipeline struct {
	rasterizer  Rasterizer
	extractor   Extractor
	corrector   TextCorrector
	concurrency int
}

// NewPipeline creates a Pipeline. corrector may be nil to skip correction.
// concurrency <= 0 runs every page at once.
func NewPipeline(rasterizer Rasterizer, extractor Extractor, corrector TextCorrector, concurrency int) *Pipeline {
	return &Pipeline{
		rasterizer:  rasterizer,
		extractor:   extractor,
		corrector:   corrector,
		concurrency: concurrency,
	}
}

// ProcessDocument returns one result per page, ordered by page number.
// A failing page yields a degraded result; only an unreadable document is an error.
func (p *Pipeline) ProcessDocument(ctx context.Context, data []byte) ([]PageResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pages, err := p.rasterizer.Open(data)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = pages.Close()
	}()

	count := pages.PageCount()
	results := make([]PageResult, count)
	start := time.Now()

	// tasks never return an error, so no sibling is cancelled
	var g errgroup.Group
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}
	for i := 0; i < count; i++ {
		g.Go(func() error {
			results[i] = p.processPage(ctx, pages, i)
			return nil
		})
	}
	_ = g.Wait()

	degradedCount := 0
	for _, r := range results {
		if r.Degraded() {
			degradedCount++
		}
	}
	logger.InfoContext(ctx, "document processed",
		"pages", count,
		"degraded", degradedCount,
		"duration", time.Since(start),
	)
	return results, nil
}

func (p *Pipeline) processPage(ctx context.Context, pages pdfdoc.Pages, index int) (result PageResult) {
	pageNumber := index + 1
	logger := contextutil.LoggerFromContext(ctx).With("page", pageNumber)
	ctx = contextutil.WithLogger(ctx, logger)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("page %d panicked: %v", pageNumber, r)
			logger.ErrorContext(ctx, "page processing panicked", "error", err)
			result = PageResult{PageNumber: pageNumber, Text: Sentinel(err), RawText: Sentinel(err), OCRErr: err}
		}
	}()

	if err := ctx.Err(); err != nil {
		return PageResult{PageNumber: pageNumber, Text: Sentinel(err), RawText: Sentinel(err), OCRErr: err}
	}

	img, err := pages.RenderPage(index)
	if err != nil {
		logger.WarnContext(ctx, "page render failed", "error", err)
		return PageResult{PageNumber: pageNumber, Text: Sentinel(err), RawText: Sentinel(err), OCRErr: err}
	}

	raw := p.extractor.Extract(ctx, img)
	result = PageResult{PageNumber: pageNumber, Text: raw.Text, RawText: raw.Text, OCRErr: raw.Cause}
	if raw.Degraded() || p.corrector == nil {
		return result
	}

	corrected := p.corrector.Correct(ctx, raw.Text)
	result.Text = corrected.Text
	result.CorrectionErr = corrected.Cause
	logger.DebugContext(ctx, "page processed",
		"raw_length", len(raw.Text),
		"text_length", len(corrected.Text),
		"correction_fallback", corrected.Degraded(),
	)
	return result
}
