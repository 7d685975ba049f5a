package indexer

import (
	"fmt"

	"github.com/google/uuid"
)

// chunkNamespace scopes chunk ids so they never collide with other UUIDv5 users.
var chunkNamespace = uuid.MustParse("6f1c1f3e-2b8a-5d2e-9c3a-4e1b7a9d0c55")

// Page is the corrected text of one page, ready for indexing.
type Page struct {
	Number int
	Text   string
}

// Chunk is one window of page text with its storage key.
type Chunk struct {
	ID           string
	DocumentName string
	PageNumber   int
	Index        int
	Text         string
}

// IngestResult summarizes one document ingestion.
type IngestResult struct {
	DocumentName string
	// PagesProcessed counts pages that stored at least one chunk.
	PagesProcessed int
	ChunksAdded    int
}

// ChunkID derives the stable storage key of a chunk from its position.
// Re-ingesting the same document overwrites the same keys.
func ChunkID(documentName string, pageNumber, chunkIndex int) string {
	key := fmt.Sprintf("%s::%d::%d", documentName, pageNumber, chunkIndex)
	return uuid.NewSHA1(chunkNamespace, []byte(key)).String()
}
