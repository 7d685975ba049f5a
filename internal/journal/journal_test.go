package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_WritesCategories(t *testing.T) {
	dir := t.TempDir()
	j, err := Open(dir)
	require.NoError(t, err)

	long := strings.Repeat("ə", 600)
	j.OCR("scan.pdf", 2, long, map[string]any{"degraded": false})
	j.OCR("scan.pdf", 3, "short", nil)
	j.Chat(
		[]Message{{Role: "user", Content: "Hello"}},
		"Hi there",
		[]SourceRef{{PDFName: "scan.pdf", PageNumber: 2, ContentLength: 600}},
		nil,
	)
	j.Error("ocr", "bad pdf", map[string]any{"filename": "x.pdf"})
	require.NoError(t, j.Close())

	ocr, err := ReadAll(dir, CategoryOCR)
	require.NoError(t, err)
	require.Len(t, ocr, 2)
	assert.Equal(t, "ocr", ocr[0]["endpoint"])
	assert.Equal(t, "scan.pdf", ocr[0]["filename"])
	assert.EqualValues(t, 2, ocr[0]["page_number"])
	assert.EqualValues(t, 600, ocr[0]["text_length"])
	assert.Equal(t, strings.Repeat("ə", 500)+"...", ocr[0]["extracted_text"])
	assert.NotEmpty(t, ocr[0]["timestamp"])
	assert.Equal(t, "short", ocr[1]["extracted_text"])

	chat, err := ReadAll(dir, CategoryChat)
	require.NoError(t, err)
	require.Len(t, chat, 1)
	assert.EqualValues(t, 1, chat[0]["sources_count"])
	assert.Equal(t, "Hi there", chat[0]["answer"])
	sources, ok := chat[0]["sources"].([]any)
	require.True(t, ok)
	assert.Equal(t, "scan.pdf", sources[0].(map[string]any)["pdf_name"])

	errs, err := ReadAll(dir, CategoryErrors)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "bad pdf", errs[0]["error"])
}

func TestJournal_AppendsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	for range 2 {
		j, err := Open(dir)
		require.NoError(t, err)
		j.Error("chat", "boom", nil)
		require.NoError(t, j.Close())
	}
	entries, err := ReadAll(dir, CategoryErrors)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestJournal_Nop(t *testing.T) {
	j := Nop()
	j.OCR("a.pdf", 1, "text", nil)
	j.Chat(nil, "answer", nil, nil)
	assert.NoError(t, j.Close())
}

func TestReadAll_MissingCategory(t *testing.T) {
	entries, err := ReadAll(t.TempDir(), CategoryChat)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
