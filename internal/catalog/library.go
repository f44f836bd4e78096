package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m3rciful/librarybot/core/logger"
)

// Library serialises access to a Store so that every mutation runs its
// load-modify-save sequence without interleaving with other operations.
type Library struct {
	mu    sync.Mutex
	store Store
}

// NewLibrary wraps a store.
func NewLibrary(store Store) *Library {
	return &Library{store: store}
}

// Snapshot loads the current catalog. The returned value is owned by the caller.
func (l *Library) Snapshot(ctx context.Context) (*Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Load(ctx)
}

// Update loads the catalog, applies fn and saves the result.
// When fn fails nothing is written and its error is returned.
func (l *Library) Update(ctx context.Context, fn func(*Catalog) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	if err := l.store.Save(ctx, c); err != nil {
		return err
	}
	logger.Debug(ctx, "service.catalog", "catalog.saved",
		slog.Int("categories", len(c.Categories)),
		slog.Int("books", c.BookCount()),
	)
	return nil
}
