// Package ocr turns PDF pages into corrected Markdown text using a vision model
// for transcription and a language model for spelling correction.
package ocr

import (
	"errors"
	"fmt"
	"strings"
)

const sentinelPrefix = "[OCR Error"

var (
	// ErrEmptyResponse is returned when a model call succeeds but yields no text.
	ErrEmptyResponse = errors.New("model returned empty content")
	// ErrStructureChanged is returned when a correction altered the Markdown outline.
	ErrStructureChanged = errors.New("correction changed document structure")
)

// TextResult is the outcome of one text-producing stage.
// A non-nil Cause marks the result as degraded; Text is then the stage's fallback.
type TextResult struct {
	Text  string
	Cause error
}

// Degraded reports whether the stage fell back instead of producing real output.
func (r TextResult) Degraded() bool {
	return r.Cause != nil
}

// PageResult is the outcome of processing one page.
type PageResult struct {
	PageNumber int
	// Text is the corrected text, the raw OCR text when correction fell back,
	// or the sentinel when OCR failed.
	Text    string
	RawText string
	// OCRErr is set when the page could not be transcribed.
	OCRErr error
	// CorrectionErr is set when correction fell back to the raw text.
	CorrectionErr error
}

// Degraded reports whether the page carries sentinel text instead of a transcription.
func (p PageResult) Degraded() bool {
	return p.OCRErr != nil
}

// Corrected reports whether the corrector's output was used.
func (p PageResult) Corrected() bool {
	return !p.Degraded() && p.CorrectionErr == nil && p.Text != p.RawText
}

// Sentinel renders err as the placeholder text stored for a failed page.
func Sentinel(err error) string {
	return fmt.Sprintf("%s: %v]", sentinelPrefix, err)
}

// IsSentinel reports whether text is an OCR failure placeholder.
func IsSentinel(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), sentinelPrefix)
}

// rateLimitExhausted wraps the last throttling error once retries are used up.
type rateLimitExhausted struct {
	err error
}

func (e *rateLimitExhausted) Error() string {
	return fmt.Sprintf("Error code: 429 - %v", e.err)
}

func (e *rateLimitExhausted) Unwrap() error {
	return e.err
}
