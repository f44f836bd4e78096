package middleware

import tele "gopkg.in/telebot.v4"

// AdminChecker reports whether a Telegram user may run admin-only handlers.
type AdminChecker interface {
	IsAdmin(userID int64) bool
}

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	Admins   AdminChecker
	OnReject tele.HandlerFunc
}

func (o AdminOptions) allowed(c tele.Context) bool {
	if o.Admins == nil {
		return false
	}
	sender := c.Sender()
	if sender == nil {
		return false
	}
	return o.Admins.IsAdmin(sender.ID)
}

// AdminOnlyMiddleware ensures that only configured admins can invoke downstream handlers.
// A nil checker rejects everyone.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !opts.allowed(c) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
