package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/librarybot/core/logger"
	"github.com/m3rciful/librarybot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/librarybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// seenUpdates remembers update ids for ttl so a receipt is logged once even when
// LoggerMiddleware wraps both the global chain and a route.
type seenUpdates struct {
	mu    sync.Mutex
	ttl   time.Duration
	ids   map[int]time.Time
	sweep time.Time
}

func (s *seenUpdates) first(id int, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.sweep) > s.ttl {
		for k, at := range s.ids {
			if now.Sub(at) > s.ttl {
				delete(s.ids, k)
			}
		}
		s.sweep = now
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = now
	return true
}

var receipts = &seenUpdates{ttl: 10 * time.Second, ids: make(map[int]time.Time)}

// LoggerMiddleware stores the request context with its rid and logs one debug
// receipt per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		c.Set("rid", logger.RIDFrom(ctx))

		if logger.ShouldSampleDebug() && receipts.first(c.Update().ID, time.Now()) {
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", receiptAttrs(c)...)
		}
		return next(c)
	}
}

func receiptAttrs(c tele.Context) []slog.Attr {
	upd := c.Update()
	attrs := []slog.Attr{slog.String("status", "ok"), slog.Int("update_id", upd.ID)}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.Int64("chat_id", chat.ID), slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil {
		attrs = append(attrs, slog.Int64("user_id", user.ID))
		if user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		if user.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", user.LanguageCode))
		}
	}

	switch {
	case upd.Callback != nil:
		key, payload := callbacks.ParseCallbackData(upd.Callback)
		if key != "" {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
		}
		if payload != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
		}
	case upd.Message != nil && upd.Message.Document != nil:
		doc := upd.Message.Document
		attrs = append(attrs,
			slog.String("payload", logger.SanitizeLimit(doc.FileName, 128)),
			slog.String("mime", doc.MIME),
		)
	case upd.Message != nil && upd.Message.Text != "":
		attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(upd.Message.Text, 256)))
	}
	return attrs
}
