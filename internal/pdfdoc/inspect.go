// Package pdfdoc validates uploaded PDFs and renders their pages to images.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when data cannot be parsed as a PDF document.
var ErrNotPDF = errors.New("not a readable PDF")

// headerWindow is how far into the file the %PDF- marker may appear.
const headerWindow = 1024

// Info describes a parsed PDF.
type Info struct {
	PageCount int
}

// HasPDFExtension reports whether name ends in .pdf (case-insensitive).
func HasPDFExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Inspect parses data far enough to confirm it is a PDF with at least one page.
func Inspect(data []byte) (info Info, err error) {
	head := data
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	if !bytes.Contains(head, []byte("%PDF-")) {
		return Info{}, fmt.Errorf("%w: missing PDF header", ErrNotPDF)
	}

	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			info = Info{}
			err = fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	pages := reader.NumPage()
	if pages <= 0 {
		return Info{}, fmt.Errorf("%w: document has no pages", ErrNotPDF)
	}
	return Info{PageCount: pages}, nil
}
