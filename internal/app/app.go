// Package app wires configuration, storage, the conversation machine and the
// Telegram adapter into a runnable bot.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/librarybot/core/bootstrap"
	coreconfig "github.com/m3rciful/librarybot/core/config"
	coredatabase "github.com/m3rciful/librarybot/core/database"
	"github.com/m3rciful/librarybot/core/logger"
	"github.com/m3rciful/librarybot/core/state"
	coretelegram "github.com/m3rciful/librarybot/core/telegram"
	"github.com/m3rciful/librarybot/core/telegram/router"
	"github.com/m3rciful/librarybot/internal/access"
	"github.com/m3rciful/librarybot/internal/bot"
	"github.com/m3rciful/librarybot/internal/catalog"
	"github.com/m3rciful/librarybot/internal/config"
	"github.com/m3rciful/librarybot/internal/flow"
)

// App holds the assembled bot.
type App struct {
	cfg      *config.Config
	infra    *bootstrap.Result
	admins   access.Set
	library  *catalog.Library
	machine  *flow.Machine
	handler  *bot.Handler
	registry *coretelegram.Registry
}

// Options tweak Bootstrap for tests and offline tooling.
type Options struct {
	// LoggerInit replaces logger.InitLogger.
	LoggerInit func(*coreconfig.Config) error
	// Connect and Migrate replace the postgres defaults.
	Connect func(coredatabase.Config) (*sqlx.DB, error)
	Migrate func(coredatabase.Config) error
}

// Bootstrap builds the application from configuration.
func Bootstrap(cfg *config.Config, opts ...Options) (*App, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	ctx := context.Background()

	infra, lib, err := openLibrary(ctx, cfg, o)
	if err != nil {
		return nil, err
	}

	// Fail fast on a corrupt document instead of on the first button press.
	snap, err := lib.Snapshot(ctx)
	if err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("app: catalog unavailable: %w", err)
	}

	admins := access.New(cfg.Telegram.AdminIDs)
	var flowOpts []flow.Option
	if cfg.Catalog.SearchLimit > 0 {
		flowOpts = append(flowOpts, flow.WithSearchLimit(cfg.Catalog.SearchLimit))
	}
	machine := flow.New(lib, admins, state.NewMemoryManager[flow.Draft](), flowOpts...)
	handler := bot.New(machine)

	reg := coretelegram.NewRegistry()
	if err := handler.Register(reg); err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("app: register handlers: %w", err)
	}

	logger.Info(ctx, "app", "catalog.ready",
		slog.String("driver", cfg.Catalog.Driver),
		slog.Int("categories", len(snap.Categories)),
		slog.Int("books", snap.BookCount()),
		slog.Int("admins", admins.Len()),
	)

	return &App{
		cfg:      cfg,
		infra:    infra,
		admins:   admins,
		library:  lib,
		machine:  machine,
		handler:  handler,
		registry: reg,
	}, nil
}

// Library exposes the catalog for tooling.
func (a *App) Library() *catalog.Library { return a.library }

// Machine exposes the conversation machine.
func (a *App) Machine() *flow.Machine { return a.machine }

// Close releases the database connection if one was opened.
func (a *App) Close() error {
	return a.infra.Close()
}

// TelegramRunOptions assembles middlewares and routes for the Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	if a == nil || a.cfg == nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: not bootstrapped")
	}
	core := a.cfg.CoreConfig()

	var routes []coretelegram.Route
	routes = append(routes, router.CommandRoutes(a.registry, router.CommandRouteOptions{
		Admins:        a.admins,
		OnAdminReject: a.handler.AdminRejected,
	})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{
		NotFound: a.handler.UnknownCallback(),
	}))
	routes = append(routes, router.TextRoutes(a.handler, a.registry, router.TextOptions{
		UnknownText:     a.handler.UnknownText(),
		UnknownDocument: a.handler.UnknownDocument(),
	})...)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Middlewares: coretelegram.DefaultMiddlewares(core, a.handler.RateLimited),
		Routes:      routes,
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			start := time.Now()
			err := a.Close()
			logger.Info(ctx, "app", "infra.closed",
				slog.Duration("duration", logger.Took(start)),
				slog.String("status", logger.Status(err)),
			)
			return err
		},
	}, nil
}
