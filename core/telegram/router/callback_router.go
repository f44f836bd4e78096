package router

import (
	"log/slog"

	tg "github.com/m3rciful/librarybot/core/telegram"
	"github.com/m3rciful/librarybot/core/telegram/callbacks"
	"github.com/m3rciful/librarybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callbacks through the registry.
// Handlers are responsible for answering the callback query themselves.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}

		key, _ := callbacks.ParseCallbackData(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		s := newSummary(name, slog.String("cb_key", key))

		if h, ok := reg.GetCallback(key); ok && h != nil {
			return s.run(c, func() error { return h(c) })
		}

		notFound := reg.CallbackNotFound()
		if notFound == nil {
			notFound = opts.NotFound
		}
		s.extras = append(s.extras, slog.String("reason", "not_found"))
		return s.run(c, func() error {
			if notFound != nil {
				return notFound(c)
			}
			return c.Respond()
		})
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
