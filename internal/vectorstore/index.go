package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"scanrag/internal/contextutil"
)

// Payload keys stored with every chunk.
const (
	MetaPDFName    = "pdf_name"
	MetaPageNumber = "page_number"
	MetaChunkIndex = "chunk_index"
	MetaContent    = "content"

	// MetaEmbeddingModel records which model produced the vector, so the
	// index itself can be checked against the configured model.
	MetaEmbeddingModel = "embedding_model"
)

var errStopScroll = errors.New("stop scroll")

// DefaultBatchSize is the number of points sent per upsert call.
const DefaultBatchSize = 100

// DocumentInfo summarizes one indexed document.
type DocumentInfo struct {
	PageCount int `json:"page_count"`
}

// Stats describes the index for observability.
type Stats struct {
	TotalVectors int
	IndexName    string
	Dimension    int
}

// Index binds a VectorStore backend to one collection of document chunks.
type Index struct {
	store     VectorStore
	name      string
	batchSize int
}

// NewIndex creates an Index over the named collection.
func NewIndex(store VectorStore, name string, batchSize int) *Index {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Index{store: store, name: name, batchSize: batchSize}
}

// Name returns the collection name.
func (ix *Index) Name() string {
	return ix.name
}

// Upsert writes points in batches. Points keep their relative order.
// A failed batch leaves earlier batches stored; retrying is safe because ids are stable.
func (ix *Index) Upsert(ctx context.Context, points []Point) error {
	for start := 0; start < len(points); start += ix.batchSize {
		end := min(start+ix.batchSize, len(points))
		if err := ix.store.Upsert(ctx, ix.name, points[start:end]); err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// Query returns up to topK chunks most similar to vec, best first.
func (ix *Index) Query(ctx context.Context, vec []float32, topK int, filters map[string]any) ([]SearchResult, error) {
	return ix.store.Search(ctx, ix.name, vec, topK, filters)
}

// ListDocuments returns every indexed document with the number of distinct pages it has chunks for.
func (ix *Index) ListDocuments(ctx context.Context) (map[string]DocumentInfo, error) {
	pages := make(map[string]map[int]struct{})
	err := ix.store.Scroll(ctx, ix.name, func(rec Record) error {
		name := MetaString(rec.Meta, MetaPDFName)
		if name == "" {
			return nil
		}
		if pages[name] == nil {
			pages[name] = make(map[int]struct{})
		}
		pages[name][MetaInt(rec.Meta, MetaPageNumber)] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make(map[string]DocumentInfo, len(pages))
	for name, set := range pages {
		docs[name] = DocumentInfo{PageCount: len(set)}
	}
	return docs, nil
}

// FirstRecord returns one stored point, or false when the collection is empty.
func (ix *Index) FirstRecord(ctx context.Context) (Record, bool, error) {
	var first Record
	found := false
	err := ix.store.Scroll(ctx, ix.name, func(rec Record) error {
		first, found = rec, true
		return errStopScroll
	})
	if err != nil && !errors.Is(err, errStopScroll) {
		return Record{}, false, fmt.Errorf("failed to read a record: %w", err)
	}
	return first, found, nil
}

// DeleteDocument removes every chunk of the named document.
func (ix *Index) DeleteDocument(ctx context.Context, name string) error {
	if err := ix.store.DeleteWhere(ctx, ix.name, MetaPDFName, name); err != nil {
		return fmt.Errorf("failed to delete document %q: %w", name, err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "document deleted", "collection", ix.name, "pdf_name", name)
	return nil
}

// Clear removes every chunk. It cannot be undone.
func (ix *Index) Clear(ctx context.Context) error {
	if err := ix.store.Clear(ctx, ix.name); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "index cleared", "collection", ix.name)
	return nil
}

// Stats reports the vector count and dimension.
func (ix *Index) Stats(ctx context.Context) (Stats, error) {
	info, err := ix.store.GetCollectionInfo(ctx, ix.name)
	if err != nil {
		return Stats{IndexName: ix.name}, err
	}
	return Stats{
		TotalVectors: info.PointsCount,
		IndexName:    ix.name,
		Dimension:    info.VectorSize,
	}, nil
}

// MetaString reads a string payload field.
func MetaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// MetaInt reads an integer payload field stored as any numeric or decimal string type.
func MetaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}
