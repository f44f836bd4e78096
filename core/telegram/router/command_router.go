package router

import (
	"log/slog"
	"strings"

	"github.com/m3rciful/librarybot/core/logger"
	tg "github.com/m3rciful/librarybot/core/telegram"
	"github.com/m3rciful/librarybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	Admins        middleware.AdminChecker
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
// Aliases are routed to the same handler as their canonical command.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		Admins:   opts.Admins,
		OnReject: opts.OnAdminReject,
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		name := normalizeHandlerName(cmd)
		inner := def.Handler
		if def.AdminOnly {
			inner = middleware.AdminOnlyMiddleware(adminOpts)(inner)
		}
		h := func(c tele.Context) error {
			return newSummary(name).run(c, func() error { return inner(c) })
		}
		h = middleware.LoggerMiddleware(h)
		h = middleware.RecoverMiddleware(h)

		routes = append(routes, tg.Route{Endpoint: cmd, Handler: h})
		for _, alias := range def.Aliases {
			alias = "/" + strings.TrimPrefix(alias, "/")
			if owner, _, ok := reg.LookupCommand(alias); !ok || owner != cmd {
				continue
			}
			routes = append(routes, tg.Route{Endpoint: alias, Handler: h})
		}
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
