// Package uploads archives original upload bytes on the local filesystem.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.UploadStore = (*Store)(nil)

// Store writes uploads as {scope key}_{12 hex}{ext} under a single directory.
type Store struct {
	dir string
}

// New creates the upload directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("uploads: directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes content under a fresh name and returns the full path.
func (s *Store) Save(ctx context.Context, scope domain.Scope, filename string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := scope.Validate(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	path := filepath.Join(s.dir, scope.Key()+"_"+id+ext)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

// Delete removes an archived upload. A missing file is not an error.
func (s *Store) Delete(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}
