package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/trebuchet-org/artigen/internal/usecase"
)

// FileWriterAdapter handles file system operations for generated output
type FileWriterAdapter struct{}

// NewFileWriterAdapter creates a new file writer adapter
func NewFileWriterAdapter() *FileWriterAdapter {
	return &FileWriterAdapter{}
}

// WriteFile writes content to a file, replacing any existing content
func (f *FileWriterAdapter) WriteFile(ctx context.Context, path string, content []byte) error {
	return os.WriteFile(path, content, 0644)
}

// EnsureDirectory ensures a directory exists
func (f *FileWriterAdapter) EnsureDirectory(ctx context.Context, path string) error {
	return os.MkdirAll(path, 0755)
}

// RemoveAll removes path and everything below it. A missing path is not an error.
func (f *FileWriterAdapter) RemoveAll(ctx context.Context, path string) error {
	return os.RemoveAll(path)
}

// ListFiles returns the sorted names of the regular files directly inside dir
func (f *FileWriterAdapter) ListFiles(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// HasPrefix reports whether the file at path starts with prefix. A missing
// file has no prefix.
func (f *FileWriterAdapter) HasPrefix(ctx context.Context, path string, prefix []byte) (bool, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer file.Close()

	head := make([]byte, len(prefix))
	if _, err := io.ReadFull(file, head); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, prefix), nil
}

// RemoveIfEmpty removes dir when it has no entries left and reports whether
// it did. A missing dir counts as removed.
func (f *FileWriterAdapter) RemoveIfEmpty(ctx context.Context, dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, err
	}
	return true, nil
}

// FindMarkers walks root and returns every directory, relative to root and
// slash-separated, that contains a file named marker starting with header.
// A missing root yields no directories.
func (f *FileWriterAdapter) FindMarkers(ctx context.Context, root, marker string, header []byte) ([]string, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || d.Name() != marker {
			return nil
		}
		ok, err := f.HasPrefix(ctx, path, header)
		if err != nil || !ok {
			return err
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		dirs = append(dirs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(dirs)
	return dirs, nil
}

// Ensure the adapter implements the interface
var _ usecase.OutputWriter = (*FileWriterAdapter)(nil)
