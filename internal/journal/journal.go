// Package journal writes the audit trail of OCR and chat responses as JSON
// lines, one file per category under a directory.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Categories.
const (
	CategoryOCR    = "ocr"
	CategoryChat   = "chat"
	CategoryErrors = "errors"
)

// previewRunes bounds logged text fields.
const previewRunes = 500

// Message is a chat turn as recorded in the journal.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SourceRef summarizes a source cited in a chat answer.
type SourceRef struct {
	PDFName       string `json:"pdf_name"`
	PageNumber    int    `json:"page_number"`
	ContentLength int    `json:"content_length"`
}

// Journal appends entries to <dir>/<category>.jsonl. A nil *Journal or one
// created with Nop discards everything.
type Journal struct {
	dir string

	mu      sync.Mutex
	loggers map[string]*zap.Logger
	files   []*os.File
}

// Open creates the directory and returns a Journal writing into it.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal dir: %w", err)
	}
	return &Journal{dir: dir, loggers: make(map[string]*zap.Logger)}, nil
}

// Nop returns a Journal that records nothing.
func Nop() *Journal {
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	}
}

func (j *Journal) logger(category string) (*zap.Logger, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if l, ok := j.loggers[category]; ok {
		return l, nil
	}

	f, err := os.OpenFile(filepath.Join(j.dir, category+".jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.Lock(f), zap.InfoLevel)
	l := zap.New(core)
	j.loggers[category] = l
	j.files = append(j.files, f)
	return l, nil
}

func (j *Journal) write(category string, fields ...zap.Field) {
	if j == nil {
		return
	}
	l, err := j.logger(category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "journal: %v\n", err)
		return
	}
	l.Info("", fields...)
}

// OCR records the text extracted from one page.
func (j *Journal) OCR(filename string, pageNumber int, text string, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	j.write(CategoryOCR,
		zap.String("endpoint", CategoryOCR),
		zap.String("filename", filename),
		zap.Int("page_number", pageNumber),
		zap.String("extracted_text", Preview(text)),
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.Any("metadata", metadata),
	)
}

// Chat records a chat exchange.
func (j *Journal) Chat(messages []Message, answer string, sources []SourceRef, metadata map[string]any) {
	if sources == nil {
		sources = []SourceRef{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	j.write(CategoryChat,
		zap.String("endpoint", CategoryChat),
		zap.Any("messages", messages),
		zap.String("answer", Preview(answer)),
		zap.Int("answer_length", utf8.RuneCountInString(answer)),
		zap.Int("sources_count", len(sources)),
		zap.Any("sources", sources),
		zap.Any("metadata", metadata),
	)
}

// Error records a failed request.
func (j *Journal) Error(endpoint, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	j.write(CategoryErrors,
		zap.String("endpoint", endpoint),
		zap.String("error", message),
		zap.Any("details", details),
	)
}

// Close flushes and closes every open file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	var errs []error
	for _, l := range j.loggers {
		_ = l.Sync()
	}
	for _, f := range j.files {
		errs = append(errs, f.Close())
	}
	j.loggers = make(map[string]*zap.Logger)
	j.files = nil
	return errors.Join(errs...)
}

// ReadAll returns every entry of a category, oldest first.
func ReadAll(dir, category string) ([]map[string]any, error) {
	f, err := os.Open(filepath.Join(dir, category+".jsonl"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("invalid journal line: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// Preview cuts text to 500 runes and marks the cut with "...".
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes]) + "..."
}
