package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "metrics.counters"

// Counters summarises what a handler sent back for one update.
type Counters struct {
	Messages  int
	Documents int
	Keyboard  bool
}

type counters struct {
	messages  atomic.Int32
	documents atomic.Int32
	keyboard  atomic.Bool
}

// metricsContext wraps tele.Context and records every successful outgoing call.
type metricsContext struct {
	tele.Context
	n *counters
}

func (m metricsContext) record(what any, opts []any, err error) error {
	if err != nil {
		return err
	}
	if _, ok := what.(*tele.Document); ok {
		m.n.documents.Add(1)
	} else {
		m.n.messages.Add(1)
	}
	if hasKeyboard(opts) {
		m.n.keyboard.Store(true)
	}
	return nil
}

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Send proxies tele.Context.Send while updating counters.
func (m metricsContext) Send(what any, opts ...any) error {
	return m.record(what, opts, m.Context.Send(what, opts...))
}

// Reply proxies tele.Context.Reply while updating counters.
func (m metricsContext) Reply(what any, opts ...any) error {
	return m.record(what, opts, m.Context.Reply(what, opts...))
}

// Edit proxies tele.Context.Edit; edits count as messages.
func (m metricsContext) Edit(what any, opts ...any) error {
	return m.record(what, opts, m.Context.Edit(what, opts...))
}

// EditOrSend proxies tele.Context.EditOrSend while updating counters.
func (m metricsContext) EditOrSend(what any, opts ...any) error {
	return m.record(what, opts, m.Context.EditOrSend(what, opts...))
}

// EditOrReply proxies tele.Context.EditOrReply while updating counters.
func (m metricsContext) EditOrReply(what any, opts ...any) error {
	return m.record(what, opts, m.Context.EditOrReply(what, opts...))
}

// MessageMetricsMiddleware instruments the context so handler summaries can
// report how many messages and documents went out.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		n := &counters{}
		c.Set(countersKey, n)
		return next(metricsContext{Context: c, n: n})
	}
}

// GetCounters reads the counters recorded so far for the update. Sends still
// queued on the async dispatcher are not included yet.
func GetCounters(c tele.Context) Counters {
	n, ok := c.Get(countersKey).(*counters)
	if !ok {
		return Counters{}
	}
	return Counters{
		Messages:  int(n.messages.Load()),
		Documents: int(n.documents.Load()),
		Keyboard:  n.keyboard.Load(),
	}
}
