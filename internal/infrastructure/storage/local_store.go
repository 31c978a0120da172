// Package storage persists rendered invoice PDFs on the local filesystem
// and exposes them through a public base URL.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/laurent7850/The-event/internal/application/invoicing"
	"github.com/laurent7850/The-event/pkg/logger"
)

var _ invoicing.ArtifactStore = (*LocalStore)(nil)

// LocalStore implements invoicing.ArtifactStore on a local directory.
type LocalStore struct {
	baseDir string
	baseURL string
	log     *logger.Logger
}

// NewLocalStore builds the store. baseURL is the public prefix under which
// the baseDir contents are served.
func NewLocalStore(baseDir, baseURL string, log *logger.Logger) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Upload writes content under the relative path and returns the public link.
func (s *LocalStore) Upload(_ context.Context, relPath string, content []byte) (string, error) {
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(relPath))
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: create directories: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	s.log.Debug().Str("path", fullPath).Int("size", len(content)).Msg("artifact stored")
	return s.publicURL(relPath), nil
}

func (s *LocalStore) publicURL(relPath string) string {
	parts := strings.Split(path.Clean(relPath), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.baseURL + "/" + strings.Join(parts, "/")
}

// validatePath rejects paths that escape baseDir.
func (s *LocalStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("storage: resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("storage: resolve base path: %w", err)
	}
	if absPath != absBase && !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("storage: path escapes base directory: %s", fullPath)
	}
	return nil
}
