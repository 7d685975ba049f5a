package indexer

import (
	"context"
	"fmt"
	"strings"

	"scanrag/internal/contextutil"
	"scanrag/internal/vectorstore"
)

// DefaultEmbedBatchSize is the number of chunks sent per embeddings call.
const DefaultEmbedBatchSize = 64

// Embedder turns texts into vectors, one per text, in input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer chunks page text, embeds the chunks and stores them in the index.
type Indexer struct {
	chunker   *Chunker
	embedder  Embedder
	model     string
	index     *vectorstore.Index
	batchSize int
}

// NewIndexer creates an Indexer. embeddingModel is stored with every chunk.
func NewIndexer(chunker *Chunker, embedder Embedder, embeddingModel string, index *vectorstore.Index, embedBatchSize int) *Indexer {
	if embedBatchSize <= 0 {
		embedBatchSize = DefaultEmbedBatchSize
	}
	return &Indexer{
		chunker:   chunker,
		embedder:  embedder,
		model:     embeddingModel,
		index:     index,
		batchSize: embedBatchSize,
	}
}

// Chunks splits every page into chunks with stable ids. Blank pages produce none.
func (ix *Indexer) Chunks(documentName string, pages []Page) ([]Chunk, error) {
	var chunks []Chunk
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		texts, err := ix.chunker.Split(page.Text)
		if err != nil {
			return nil, err
		}
		for i, text := range texts {
			chunks = append(chunks, Chunk{
				ID:           ChunkID(documentName, page.Number, i),
				DocumentName: documentName,
				PageNumber:   page.Number,
				Index:        i,
				Text:         text,
			})
		}
	}
	return chunks, nil
}

// IngestDocument indexes the pages of one document. Re-ingesting a document
// overwrites the chunks at the same positions.
func (ix *Indexer) IngestDocument(ctx context.Context, documentName string, pages []Page) (IngestResult, error) {
	logger := contextutil.LoggerFromContext(ctx)
	result := IngestResult{DocumentName: documentName}

	chunks, err := ix.Chunks(documentName, pages)
	if err != nil {
		return result, err
	}
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "pdf_name", documentName, "pages", len(pages))
		return result, nil
	}

	points := make([]vectorstore.Point, 0, len(chunks))
	for start := 0; start < len(chunks); start += ix.batchSize {
		batch := chunks[start:min(start+ix.batchSize, len(chunks))]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := ix.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return result, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vectors) != len(batch) {
			return result, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
		}

		for i, c := range batch {
			points = append(points, vectorstore.Point{
				ID:  c.ID,
				Vec: vectors[i],
				Meta: map[string]any{
					vectorstore.MetaPDFName:    c.DocumentName,
					vectorstore.MetaPageNumber: c.PageNumber,
					vectorstore.MetaChunkIndex: c.Index,
					vectorstore.MetaContent:    c.Text,

					vectorstore.MetaEmbeddingModel: ix.model,
				},
			})
		}
	}

	if err := ix.index.Upsert(ctx, points); err != nil {
		return result, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	seen := make(map[int]struct{})
	for _, c := range chunks {
		seen[c.PageNumber] = struct{}{}
	}
	result.PagesProcessed = len(seen)
	result.ChunksAdded = len(chunks)

	logger.InfoContext(ctx, "indexed document",
		"pdf_name", documentName,
		"pages_processed", result.PagesProcessed,
		"chunks", result.ChunksAdded)
	return result, nil
}
