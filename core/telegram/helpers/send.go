package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/librarybot/core/logger"
	"github.com/m3rciful/librarybot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher routes Send* helpers through d; nil makes them synchronous.
func SetDispatcher(d *sender.Dispatcher) {
	dispatcher.Store(d)
}

// deliver queues run on the dispatcher. A full or closed queue degrades to a
// synchronous send so the reply is not lost.
func deliver(c tele.Context, action, endpoint string, run func() error) error {
	d := dispatcher.Load()
	if d == nil {
		return run()
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, action, endpoint, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", action),
			slog.String("endpoint", endpoint),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

func sendArgs(opts []*tele.SendOptions) []any {
	args := make([]any, 0, len(opts))
	for _, o := range opts {
		if o != nil {
			args = append(args, o)
		}
	}
	return args
}

// SendText sends plain text to the current chat.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	args := sendArgs(opts)
	return deliver(c, "send.text", "sendMessage", func() error {
		return c.Send(text, args...)
	})
}

// SendDocument delivers an already uploaded file by its file id.
func SendDocument(c tele.Context, doc *tele.Document, opts ...*tele.SendOptions) error {
	args := sendArgs(opts)
	return deliver(c, "send.document", "sendDocument", func() error {
		return c.Send(doc, args...)
	})
}
