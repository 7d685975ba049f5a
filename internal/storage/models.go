package storage

import "time"

// Ingestion statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// IndexMeta pins the embedding model a collection was built with.
type IndexMeta struct {
	Collection     string
	EmbeddingModel string
	Dimension      int
	Fingerprint    string // indexer.Fingerprint of the build
	CreatedAt      time.Time
}

// Ingestion records one document ingestion run.
type Ingestion struct {
	ID             string    `json:"id"`
	PDFName        string    `json:"pdf_name"`
	PagesTotal     int       `json:"pages_total"`
	PagesProcessed int       `json:"pages_processed"`
	PagesDegraded  int       `json:"pages_degraded"`
	ChunksAdded    int       `json:"chunks_added"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
