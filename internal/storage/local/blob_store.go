// Package local writes rendered pages to a filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Config captures the parameters for the filesystem blob store.
type Config struct {
	// BaseDir roots relative object paths. Empty means paths are used as given.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// BlobStore writes pages to an afero filesystem, overwriting existing files.
type BlobStore struct {
	fs      afero.Fs
	baseDir string
}

// New creates a filesystem-backed blob store. A non-empty BaseDir is created if missing.
func New(fs afero.Fs, cfg Config) (*BlobStore, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem is required")
	}
	baseDir := strings.TrimSpace(cfg.BaseDir)
	if baseDir != "" {
		info, err := fs.Stat(baseDir)
		switch {
		case err == nil && !info.IsDir():
			return nil, fmt.Errorf("base directory path is not a directory")
		case err != nil:
			if mkErr := fs.MkdirAll(baseDir, 0o750); mkErr != nil {
				return nil, fmt.Errorf("failed to create base directory: %w", mkErr)
			}
		}
	}
	return &BlobStore{fs: fs, baseDir: baseDir}, nil
}

// PutObject writes data to path and returns the written file path.
func (s *BlobStore) PutObject(_ context.Context, path string, _ string, data io.Reader) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is required")
	}

	fullPath := filepath.Clean(path)
	if s.baseDir != "" {
		fullPath = filepath.Join(s.baseDir, path)
		cleanBaseDir := filepath.Clean(s.baseDir)
		if !strings.HasPrefix(fullPath, cleanBaseDir+string(filepath.Separator)) {
			return "", fmt.Errorf("path traversal detected")
		}
	}

	if dir := filepath.Dir(fullPath); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("failed to create parent directories: %w", err)
		}
	}
	if err := afero.WriteReader(s.fs, fullPath, data); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	return fullPath, nil
}
