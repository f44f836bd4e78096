package app

import (
	"context"
	"fmt"

	"github.com/m3rciful/librarybot/core/bootstrap"
	"github.com/m3rciful/librarybot/internal/catalog"
	"github.com/m3rciful/librarybot/internal/config"
)

// OpenLibrary prepares the configured catalog store for offline tooling.
// The returned closer releases the database connection, if any.
func OpenLibrary(ctx context.Context, cfg *config.Config, opts ...Options) (*catalog.Library, func() error, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	infra, lib, err := openLibrary(ctx, cfg, o)
	if err != nil {
		return nil, nil, err
	}
	return lib, infra.Close, nil
}

func openLibrary(ctx context.Context, cfg *config.Config, o Options) (*bootstrap.Result, *catalog.Library, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("app: nil config")
	}
	bopts := bootstrap.Options{
		Config:     cfg.CoreConfig(),
		LoggerInit: o.LoggerInit,
		Connect:    o.Connect,
		Migrate:    o.Migrate,
	}
	if cfg.UsesDatabase() {
		db := cfg.Database
		bopts.Database = &db
	}
	infra, err := bootstrap.Run(bopts)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.UsesDatabase() {
		return infra, catalog.NewLibrary(catalog.NewFileStore(cfg.Catalog.Path)), nil
	}

	store := catalog.NewPostgresStore(infra.DB, cfg.Catalog.Document)
	lib := catalog.NewLibrary(store)
	err = bootstrap.RunSeeders(ctx, bootstrap.SeederFunc{
		Label: "catalog",
		Fn: func(ctx context.Context) error {
			return catalog.SeedFromFile(ctx, lib, store, cfg.Catalog.SeedPath)
		},
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}
	return infra, lib, nil
}
