package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"scanrag/internal/contextutil"
)

// errEmbeddingRequired is returned if chromem ever tries to embed on its own.
var errEmbeddingRequired = errors.New("chromem: embeddings must be supplied by the caller")

func precomputedOnly(ctx context.Context, text string) ([]float32, error) {
	return nil, errEmbeddingRequired
}

// ChromemStore implements VectorStore with the embedded chromem-go database.
// It needs no external service; with a path it persists to disk.
type ChromemStore struct {
	db *chromem.DB

	mu   sync.Mutex
	dims map[string]int
}

// NewChromemStore opens a chromem database. An empty path keeps everything in memory.
func NewChromemStore(path string) (*ChromemStore, error) {
	var db *chromem.DB
	if path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem database at %s: %w", path, err)
		}
	}
	return &ChromemStore{db: db, dims: make(map[string]int)}, nil
}

func (s *ChromemStore) collection(name string) (*chromem.Collection, error) {
	coll := s.db.GetCollection(name, precomputedOnly)
	if coll == nil {
		return nil, fmt.Errorf("collection %q does not exist", name)
	}
	return coll, nil
}

func (s *ChromemStore) dimension(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dims[name]
}

// EnsureCollection creates the collection if missing. The vector size is
// remembered per collection and every later upsert must match it.
func (s *ChromemStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	if vectorSize <= 0 {
		return fmt.Errorf("vector size must be positive, got %d", vectorSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if known, ok := s.dims[collection]; ok && known != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, known)
	}

	meta := map[string]string{"dimension": strconv.Itoa(vectorSize)}
	if _, err := s.db.GetOrCreateCollection(collection, meta, precomputedOnly); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	s.dims[collection] = vectorSize
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "collection ready", "collection", collection, "vector_size", vectorSize)
	return nil
}

// Upsert stores points; an existing id is overwritten.
func (s *ChromemStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}

	dim := s.dimension(collection)
	docs := make([]chromem.Document, 0, len(points))
	for _, p := range points {
		if dim > 0 && len(p.Vec) != dim {
			return fmt.Errorf("point %s has %d dimensions, collection expects %d", p.ID, len(p.Vec), dim)
		}
		meta, content := toChromemMeta(p.Meta)
		docs = append(docs, chromem.Document{
			ID:        p.ID,
			Embedding: p.Vec,
			Metadata:  meta,
			Content:   content,
		})
	}

	if err := coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Search returns up to k results, clamped to the number of stored documents.
func (s *ChromemStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	n := min(k, coll.Count())
	if n == 0 {
		return nil, nil
	}

	var where map[string]string
	if len(filters) > 0 {
		where = make(map[string]string, len(filters))
		for key, v := range filters {
			where[key] = fmt.Sprint(v)
		}
	}

	found, err := coll.QueryEmbedding(ctx, query, n, where, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, 0, len(found))
	for _, r := range found {
		results = append(results, SearchResult{
			PointID: r.ID,
			Score:   r.Similarity,
			Meta:    fromChromemMeta(r.Metadata, r.Content),
		})
	}
	return results, nil
}

// Delete removes points by their IDs.
func (s *ChromemStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}
	if err := coll.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// DeleteWhere removes every point whose metadata field equals value.
func (s *ChromemStore) DeleteWhere(ctx context.Context, collection, field, value string) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}
	if err := coll.Delete(ctx, map[string]string{field: value}, nil); err != nil {
		return fmt.Errorf("failed to delete points where %s=%q: %w", field, value, err)
	}
	return nil
}

// Scroll enumerates the collection with a full-rank query against a unit probe
// vector. Order is by similarity to the probe, which is stable but arbitrary.
func (s *ChromemStore) Scroll(ctx context.Context, collection string, fn func(Record) error) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}
	count := coll.Count()
	if count == 0 {
		return nil
	}
	dim := s.dimension(collection)
	if dim == 0 {
		return fmt.Errorf("collection %q has unknown vector size", collection)
	}

	probe := make([]float32, dim)
	probe[0] = 1
	found, err := coll.QueryEmbedding(ctx, probe, count, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to scroll points: %w", err)
	}
	for _, r := range found {
		if err := fn(Record{ID: r.ID, Meta: fromChromemMeta(r.Metadata, r.Content)}); err != nil {
			return err
		}
	}
	return nil
}

// GetCollectionInfo returns the point count and remembered vector size.
func (s *ChromemStore) GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error) {
	coll, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	return &CollectionInfo{
		VectorSize:  s.dimension(collection),
		PointsCount: coll.Count(),
		Status:      "green",
	}, nil
}

// Clear drops and recreates the collection.
func (s *ChromemStore) Clear(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.DeleteCollection(collection)
	meta := map[string]string{"dimension": strconv.Itoa(s.dims[collection])}
	if _, err := s.db.CreateCollection(collection, meta, precomputedOnly); err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	return nil
}

// toChromemMeta flattens payload values to strings. The content field moves to
// the document body.
func toChromemMeta(meta map[string]any) (map[string]string, string) {
	out := make(map[string]string, len(meta))
	var content string
	for k, v := range meta {
		if k == MetaContent {
			content = fmt.Sprint(v)
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out, content
}

// fromChromemMeta restores numeric fields written by toChromemMeta.
func fromChromemMeta(meta map[string]string, content string) map[string]any {
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		switch k {
		case MetaPageNumber, MetaChunkIndex:
			if n, err := strconv.Atoi(v); err == nil {
				out[k] = n
				continue
			}
		}
		out[k] = v
	}
	out[MetaContent] = content
	return out
}
