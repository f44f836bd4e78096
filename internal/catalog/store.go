package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m3rciful/librarybot/core/logger"
)

// Store loads and saves the whole catalog document.
type Store interface {
	// Load returns the stored catalog, persisting an empty one when none exists yet.
	Load(ctx context.Context) (*Catalog, error)
	// Save overwrites the stored document.
	Save(ctx context.Context, c *Catalog) error
}

// FileStore keeps the catalog as a JSON file on local disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (*Catalog, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		c := Empty()
		if err := s.Save(ctx, c); err != nil {
			return nil, err
		}
		logger.Info(ctx, "store", "catalog.created",
			slog.String("driver", "file"),
			slog.String("path", s.path),
		)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	c, err := Decode(data)
	if err != nil {
		logger.Error(ctx, "store", "catalog.corrupt",
			slog.String("driver", "file"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return c, nil
}

// Save implements Store. The document is written to a temporary file in the
// same directory and renamed over the target, so readers never see a partial write.
func (s *FileStore) Save(_ context.Context, c *Catalog) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp catalog: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
