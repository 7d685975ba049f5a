// Package batch ingests directories of PDFs from the command line.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"scanrag/internal/pdfdoc"
)

// ScannedFile is a PDF found under a scan root.
type ScannedFile struct {
	RelPath string // Relative path from the root, slash separated
	AbsPath string
	// Name is the document name used in the index: the file's base name.
	Name string
}

// Scan walks root recursively and returns every .pdf file, sorted by relative path.
// Hidden directories are skipped.
func Scan(ctx context.Context, root string) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !pdfdoc.HasPDFExtension(path) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		files = append(files, ScannedFile{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
			Name:    filepath.Base(path),
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	return files, nil
}
