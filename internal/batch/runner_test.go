package batch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanrag/internal/contextutil"
	"scanrag/internal/service"
)

type fakeIngester struct {
	fail  map[string]error
	names []string
	data  [][]byte
}

func (f *fakeIngester) Ingest(ctx context.Context, name string, data []byte) (service.IngestResult, error) {
	f.names = append(f.names, name)
	f.data = append(f.data, data)
	if err := f.fail[name]; err != nil {
		return service.IngestResult{}, err
	}
	return service.IngestResult{Status: "success", PDFName: name, PagesProcessed: 2, ChunksAdded: 3}, nil
}

func TestRunner_Run(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "A")
	writeFile(t, filepath.Join(root, "b.pdf"), "B")
	writeFile(t, filepath.Join(root, "c.pdf"), "C")

	files, err := Scan(context.Background(), root)
	require.NoError(t, err)
	files = append(files, ScannedFile{RelPath: "gone.pdf", AbsPath: filepath.Join(root, "gone.pdf"), Name: "gone.pdf"})

	ingester := &fakeIngester{fail: map[string]error{"b.pdf": errors.New("OCR failed")}}
	summary, err := NewRunner(ingester).Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, ingester.names, "failures do not stop the run")
	assert.Equal(t, []byte("A"), ingester.data[0])
	assert.Equal(t, 4, summary.Files)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 4, summary.PagesProcessed)
	assert.Equal(t, 6, summary.ChunksAdded)
	require.Len(t, summary.Failures, 2)
	assert.Equal(t, "b.pdf", summary.Failures[0].Path)
	assert.Equal(t, "gone.pdf", summary.Failures[1].Path)
}

func TestRunner_RunWarnsOnRepeatedFileName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2023", "report.pdf"), "old")
	writeFile(t, filepath.Join(root, "2024", "report.pdf"), "new")
	writeFile(t, filepath.Join(root, "other.pdf"), "other")

	files, err := Scan(context.Background(), root)
	require.NoError(t, err)

	var buf bytes.Buffer
	ctx := contextutil.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	ingester := &fakeIngester{}
	summary, err := NewRunner(ingester).Run(ctx, files)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, []string{"2024/report.pdf"}, summary.Shadowed)

	var warnings []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "level=WARN") {
			warnings = append(warnings, line)
		}
	}
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "file name repeats within scan")
	assert.Contains(t, warnings[0], "pdf_name=report.pdf")
	assert.Contains(t, warnings[0], "first=2023/report.pdf")
}

func TestRunner_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ingester := &fakeIngester{}
	summary, err := NewRunner(ingester).Run(ctx, []ScannedFile{{RelPath: "a.pdf", AbsPath: "a.pdf", Name: "a.pdf"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ingester.names)
	assert.Zero(t, summary.Succeeded)
}
