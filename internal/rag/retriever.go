package rag

import (
	"context"
	"fmt"
	"unicode/utf8"

	"scanrag/internal/contextutil"
	"scanrag/internal/indexer"
	"scanrag/internal/vectorstore"
)

const (
	// DefaultTopK is the number of sources retrieved per query.
	DefaultTopK = 5
	// DefaultSourceMaxChars bounds the content of each source.
	DefaultSourceMaxChars = 1500
)

// Retriever embeds a query and returns the most similar chunks as sources.
type Retriever struct {
	embedder indexer.Embedder
	index    *vectorstore.Index
	topK     int
	maxChars int
}

// NewRetriever creates a Retriever. Non-positive topK and maxChars use the defaults.
// The embedder must be the one used for ingestion.
func NewRetriever(embedder indexer.Embedder, index *vectorstore.Index, topK, maxChars int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if maxChars <= 0 {
		maxChars = DefaultSourceMaxChars
	}
	return &Retriever{embedder: embedder, index: index, topK: topK, maxChars: maxChars}
}

// Retrieve returns up to topK sources for query, highest similarity first.
// topK <= 0 uses the configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Source, error) {
	return r.RetrieveFrom(ctx, query, topK, "")
}

// RetrieveFrom is Retrieve restricted to one document when pdfName is not empty.
func (r *Retriever) RetrieveFrom(ctx context.Context, query string, topK int, pdfName string) ([]Source, error) {
	logger := contextutil.LoggerFromContext(ctx)
	if topK <= 0 {
		topK = r.topK
	}

	vectors, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	var filters map[string]any
	if pdfName != "" {
		filters = map[string]any{vectorstore.MetaPDFName: pdfName}
	}

	results, err := r.index.Query(ctx, vectors[0], topK, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	sources := make([]Source, 0, len(results))
	for _, res := range results {
		sources = append(sources, Source{
			PDFName:    vectorstore.MetaString(res.Meta, vectorstore.MetaPDFName),
			PageNumber: vectorstore.MetaInt(res.Meta, vectorstore.MetaPageNumber),
			Content:    truncate(vectorstore.MetaString(res.Meta, vectorstore.MetaContent), r.maxChars),
			Score:      res.Score,
		})
	}

	logger.InfoContext(ctx, "retrieved sources", "top_k", topK, "results", len(sources))
	return sources, nil
}

// truncate cuts s to max runes and appends "..." when it was cut.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
