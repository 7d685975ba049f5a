package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	mu    sync.Mutex
	files []ScannedFile
}

func (s *seen) add(ctx context.Context, f ScannedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, f)
}

func (s *seen) snapshot() []ScannedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ScannedFile(nil), s.files...)
}

func startWatcher(t *testing.T, root string, s *seen) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := NewWatcher(root, 100*time.Millisecond, s.add)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	// give the watcher time to register the tree
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	root := t.TempDir()
	s := &seen{}
	startWatcher(t, root, s)

	path := filepath.Join(root, "new.pdf")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("%PDF-chunk\n")
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool { return len(s.snapshot()) == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)

	files := s.snapshot()
	require.Len(t, files, 1, "a burst of writes is reported once")
	assert.Equal(t, "new.pdf", files[0].Name)
	assert.Equal(t, "new.pdf", files[0].RelPath)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	s := &seen{}
	startWatcher(t, root, s)

	writeFile(t, filepath.Join(root, "notes.txt"), "text")
	writeFile(t, filepath.Join(root, "scan.pdf"), "%PDF-")

	require.Eventually(t, func() bool { return len(s.snapshot()) == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	files := s.snapshot()
	require.Len(t, files, 1)
	assert.Equal(t, "scan.pdf", files[0].Name)
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	root := t.TempDir()
	s := &seen{}
	startWatcher(t, root, s)

	sub := filepath.Join(root, "incoming")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// let the watcher pick up the new directory
	time.Sleep(150 * time.Millisecond)
	writeFile(t, filepath.Join(sub, "late.pdf"), "%PDF-")

	require.Eventually(t, func() bool {
		for _, f := range s.snapshot() {
			if f.RelPath == "incoming/late.pdf" {
				return true
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)
}
