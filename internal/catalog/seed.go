package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m3rciful/librarybot/core/logger"
)

// ReadFile decodes a catalog JSON file without creating it when missing.
func ReadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// ExistenceChecker is implemented by stores that can tell whether a document was written.
type ExistenceChecker interface {
	Exists(ctx context.Context) (bool, error)
}

// Import replaces the stored catalog with the one decoded from path.
func Import(ctx context.Context, lib *Library, path string) (*Catalog, error) {
	src, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = lib.Update(ctx, func(c *Catalog) error {
		*c = *src
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "db.seed", "catalog.imported",
		slog.String("path", path),
		slog.Int("categories", len(src.Categories)),
		slog.Int("books", src.BookCount()),
	)
	return src, nil
}

// SeedFromFile imports path into the library once: only when the store reports
// no document yet and the seed file exists.
func SeedFromFile(ctx context.Context, lib *Library, store ExistenceChecker, path string) error {
	if path == "" || store == nil {
		return nil
	}
	exists, err := store.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug(ctx, "db.seed", "seed.skip", slog.String("reason", "document_exists"))
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Warn(ctx, "db.seed", "seed.skip",
			slog.String("reason", "seed_file_missing"),
			slog.String("path", path),
		)
		return nil
	}
	_, err = Import(ctx, lib, path)
	return err
}
