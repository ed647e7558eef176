// Package stdlib holds host-side helpers for loading and saving nscript
// sources with size limits and optional root jailing.
package stdlib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscape   = errors.New("stdlib/fs: path escape violation")
	ErrFileTooLarge = errors.New("stdlib/fs: file size limit exceeded")
)

// SourceFS reads and writes program sources. With a Root set, every path is
// resolved inside it; an empty Root accepts any path.
type SourceFS struct {
	Root        string
	MaxFileSize int64
}

func NewSourceFS(root string, maxFileSize int64) *SourceFS {
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	return &SourceFS{
		Root:        root,
		MaxFileSize: maxFileSize,
	}
}

// Resolve maps path to the file it names, rejecting escapes from Root.
func (s *SourceFS) Resolve(path string) (string, error) {
	if s.Root == "" {
		return filepath.Clean(path), nil
	}
	cleanPath := filepath.Join(s.Root, path)
	rel, err := filepath.Rel(s.Root, cleanPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, path)
	}
	return cleanPath, nil
}

// ReadSource returns the contents of path.
func (s *SourceFS) ReadSource(path string) (string, error) {
	full, err := s.Resolve(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(full)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && s.MaxFileSize > 0 && info.Size() > s.MaxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), s.MaxFileSize)
	}
	return s.ReadAll(f)
}

// ReadAll reads a whole source from r, for example standard input.
func (s *SourceFS) ReadAll(r io.Reader) (string, error) {
	if s.MaxFileSize > 0 {
		r = io.LimitReader(r, s.MaxFileSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if s.MaxFileSize > 0 && int64(len(data)) > s.MaxFileSize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.MaxFileSize)
	}
	return string(data), nil
}

// WriteSource replaces path with content, creating parent directories.
func (s *SourceFS) WriteSource(path, content string) error {
	full, err := s.Resolve(path)
	if err != nil {
		return err
	}
	if s.MaxFileSize > 0 && int64(len(content)) > s.MaxFileSize {
		return ErrFileTooLarge
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0o644)
}
