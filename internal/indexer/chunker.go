package indexer

import (
	"errors"
	"fmt"
)

const (
	// DefaultChunkSize is the window length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the number of characters shared by consecutive windows.
	DefaultChunkOverlap = 200
)

// ErrInvalidChunkParams is returned when size and overlap would not make progress.
var ErrInvalidChunkParams = errors.New("invalid chunk parameters")

// Chunker splits page text into overlapping fixed-size windows.
// Sizes count characters (runes), not bytes.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker creates a validated Chunker.
func NewChunker(size, overlap int) (*Chunker, error) {
	c := &Chunker{Size: size, Overlap: overlap}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks size > 0, overlap >= 0 and overlap < size.
func (c *Chunker) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidChunkParams, c.Size)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap %d must not be negative", ErrInvalidChunkParams, c.Overlap)
	}
	if c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidChunkParams, c.Overlap, c.Size)
	}
	return nil
}

// Split returns the windows of text in order. Each window starts Size-Overlap
// characters after the previous one; the last window is the tail of the text.
// Empty text yields no windows.
func (c *Chunker) Split(text string) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := c.Size - c.Overlap
	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; ; start += step {
		end := min(start+c.Size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
