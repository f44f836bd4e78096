package router

import (
	tg "github.com/m3rciful/librarybot/core/telegram"
	"github.com/m3rciful/librarybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dialog receives text and files while a user is inside a multi-step dialogue.
type Dialog interface {
	InProgress(userID int64) bool
	Continue(c tele.Context) error
}

// TextOptions controls fallback behaviour for text/document updates.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes builds the OnText and OnDocument handlers. Active dialogues win
// over text commands, which win over the registry fallback and the options.
func TextRoutes(dialog Dialog, reg *tg.Registry, opts TextOptions) []tg.Route {
	inDialog := func(c tele.Context) bool {
		user := c.Sender()
		return dialog != nil && user != nil && dialog.InProgress(user.ID)
	}
	var dialogHandler tele.HandlerFunc
	if dialog != nil {
		dialogHandler = dialog.Continue
	}

	onText := func(c tele.Context) error {
		if inDialog(c) {
			return newSummary("dialog").run(c, func() error { return dialogHandler(c) })
		}
		if reg == nil {
			return fallback(c, "unknown_text", opts.UnknownText)
		}
		if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
			return newSummary(normalizeHandlerName(key)).run(c, func() error { return cmd.Handler(c) })
		}
		if fb := reg.TextFallback(); fb != nil {
			return newSummary("fallback").run(c, func() error { return fb(c) })
		}
		return fallback(c, "unknown_text", opts.UnknownText)
	}

	onDocument := func(c tele.Context) error {
		if inDialog(c) {
			return newSummary("dialog_document").run(c, func() error { return dialogHandler(c) })
		}
		return fallback(c, "unexpected_document", opts.UnknownDocument)
	}

	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(onText)},
		{Endpoint: tele.OnDocument, Handler: wrap(onDocument)},
	}
}

// fallback runs h under name, or logs a skipped summary when h is nil.
func fallback(c tele.Context, name string, h tele.HandlerFunc) error {
	s := newSummary(name)
	if h == nil {
		s.skipped = true
		return s.run(c, nil)
	}
	return s.run(c, func() error { return h(c) })
}
