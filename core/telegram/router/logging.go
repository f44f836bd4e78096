package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/librarybot/core/logger"
	tghelpers "github.com/m3rciful/librarybot/core/telegram/helpers"
	"github.com/m3rciful/librarybot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

var timeNow = time.Now

// summary describes one handled update for the handler.handled log line.
type summary struct {
	handler string
	start   time.Time
	// skipped marks updates nobody handled.
	skipped bool
	extras  []slog.Attr
}

func newSummary(handler string, extras ...slog.Attr) summary {
	return summary{handler: handler, start: timeNow(), extras: extras}
}

// run executes fn under the handler name and logs the summary line.
func (s summary) run(c tele.Context, fn func() error) error {
	tghelpers.WithHandler(c, s.handler)
	var err error
	if fn != nil {
		err = fn()
	}
	s.log(c, err)
	return err
}

func (s summary) log(c tele.Context, err error) {
	ctx := tghelpers.WithHandler(c, s.handler)
	sent := middleware.GetCounters(c)

	status, outcome := "ok", "ok"
	switch {
	case err != nil:
		status, outcome = "fail", "fail"
	case s.skipped:
		status = "skip"
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", s.handler),
		slog.String("outcome", outcome),
		slog.Int("messages", sent.Messages),
		slog.Int("documents", sent.Documents),
		slog.Bool("kb", sent.Keyboard),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(s.start)).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
			slog.String("cause", s.handler),
		)
	}
	attrs = append(attrs, s.extras...)
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

// deriveErrorCode prefers an explicit Code() from the error chain and falls
// back to the dynamic type name.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var c interface{ Code() string }
	if errors.As(err, &c) {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return strings.ToUpper(name)
	}
	return "UNKNOWN_ERROR"
}
