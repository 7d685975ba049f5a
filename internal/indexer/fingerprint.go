package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChunkerVersion identifies the chunking algorithm.
// Update this when chunking logic changes significantly.
const ChunkerVersion = "v2.0"

// Fingerprint identifies an index build: chunker version, embedding model,
// vector size and chunking parameters. Two builds with the same fingerprint
// produce identical points for identical input.
func Fingerprint(embeddingModel string, dimension int, c *Chunker) string {
	input := fmt.Sprintf("%s|%s|dim=%d|size=%d|overlap=%d",
		ChunkerVersion, embeddingModel, dimension, c.Size, c.Overlap)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16] // 16 hex chars = 64 bits
}
