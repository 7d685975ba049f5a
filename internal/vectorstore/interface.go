package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks scanrag/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// Record is a stored point without its vector, as returned by Scroll.
type Record struct {
	ID   string
	Meta map[string]any
}

// CollectionInfo contains information about a collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k points most similar to query by cosine similarity.
	// filters holds exact-match conditions on payload fields.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// DeleteWhere removes every point whose payload field equals value.
	DeleteWhere(ctx context.Context, collection string, field string, value string) error

	// Scroll calls fn for every stored point. Iteration stops at the first error.
	Scroll(ctx context.Context, collection string, fn func(Record) error) error

	// EnsureCollection creates the collection if missing and validates its vector size otherwise.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// GetCollectionInfo returns size and point count of a collection.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)

	// Clear removes every point, keeping the collection and its vector size.
	Clear(ctx context.Context, collection string) error
}
