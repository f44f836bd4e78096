package middleware

import (
	"errors"
	"log/slog"
	"runtime/debug"

	"github.com/m3rciful/librarybot/core/logger"
	tghelpers "github.com/m3rciful/librarybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// ErrPanic is returned in place of a recovered handler panic.
var ErrPanic = errors.New("telegram: handler panicked")

// RecoverMiddleware turns handler panics into ErrPanic so one bad update never
// stops the bot. A pending callback is answered to clear the client spinner.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error(tghelpers.BuildContext(c), "tg", "tg.panic",
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
			if c.Callback() != nil {
				_ = c.Respond()
			}
			err = ErrPanic
		}()
		return next(c)
	}
}
