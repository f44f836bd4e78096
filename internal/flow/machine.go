// Package flow is the conversation state machine behind the bot: catalog
// browsing, the search dialogue and the admin add-book dialogue.
//
// The machine is transport-agnostic. It consumes Events and answers with a
// Reply made of plain text and labelled actions; internal/bot renders them.
package flow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m3rciful/librarybot/core/logger"
	"github.com/m3rciful/librarybot/core/state"
	"github.com/m3rciful/librarybot/internal/catalog"
)

// DefaultSearchLimit is the hard cap on the number of search results shown.
const DefaultSearchLimit = 15

// Library is the catalog access the machine needs.
type Library interface {
	Snapshot(ctx context.Context) (*catalog.Catalog, error)
	Update(ctx context.Context, fn func(*catalog.Catalog) error) error
}

// AdminChecker decides who may add books.
type AdminChecker interface {
	IsAdmin(userID int64) bool
}

// Option customises a Machine.
type Option func(*Machine)

// WithSearchLimit lowers the number of search results shown. Values outside
// 1..DefaultSearchLimit are ignored.
func WithSearchLimit(n int) Option {
	return func(m *Machine) {
		if n > 0 && n <= DefaultSearchLimit {
			m.searchLimit = n
		}
	}
}

// Machine routes events to the browsing, search and admin flows.
// Events of one user are handled strictly one at a time.
type Machine struct {
	lib         Library
	admins      AdminChecker
	sessions    state.Manager[Draft]
	locks       userLocks
	searchLimit int
}

// New builds a machine. A nil session manager gets an in-memory one.
func New(lib Library, admins AdminChecker, sessions state.Manager[Draft], opts ...Option) *Machine {
	if sessions == nil {
		sessions = state.NewMemoryManager[Draft]()
	}
	m := &Machine{
		lib:         lib,
		admins:      admins,
		sessions:    sessions,
		locks:       userLocks{m: make(map[int64]*userLock)},
		searchLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the user's current step.
func (m *Machine) State(userID int64) state.State {
	return m.sessions.GetState(userID)
}

// InProgress reports whether the user is inside the search or add-book dialogue.
func (m *Machine) InProgress(userID int64) bool {
	return m.sessions.InProgress(userID)
}

// Handle processes one event and returns what to show the user.
func (m *Machine) Handle(ctx context.Context, ev Event) Reply {
	unlock := m.locks.lock(ev.UserID)
	defer unlock()

	from := m.sessions.GetState(ev.UserID)
	var r Reply
	switch ev.Kind {
	case EventCommand:
		r = m.onCommand(ctx, ev)
	case EventButton:
		r = m.onButton(ctx, ev)
	case EventText:
		r = m.onText(ctx, ev)
	case EventFile:
		r = m.onFile(ctx, ev)
	default:
		r = Reply{Err: ErrUnexpectedInput}
	}

	to := m.sessions.GetState(ev.UserID)
	attrs := []slog.Attr{
		slog.String("kind", ev.Kind.String()),
		slog.String("from_state", string(from)),
		slog.String("state", string(to)),
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("err", r.Err.Error()))
		logger.Info(ctx, "service.flow", "flow.rejected", attrs...)
	} else if from != to {
		logger.Debug(ctx, "service.flow", "flow.transition", attrs...)
	}
	return r
}

func (m *Machine) isAdmin(userID int64) bool {
	return m.admins != nil && m.admins.IsAdmin(userID)
}

func normalizeCommand(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

func (m *Machine) onCommand(ctx context.Context, ev Event) Reply {
	switch normalizeCommand(ev.Command) {
	case "start", "help":
		m.sessions.Clear(ev.UserID)
		return Reply{Text: textGreeting, Actions: m.mainMenu(ev.UserID)}
	case "cancel":
		return m.cancel(ev.UserID)
	case "search":
		return m.startSearch(ev.UserID)
	case "add":
		return m.startAdd(ev.UserID)
	case "categories", "cats":
		return m.listCategories(ctx, ev.UserID)
	}
	return Reply{Text: textChooseAction, Actions: m.mainMenu(ev.UserID), Err: ErrUnexpectedInput}
}

func (m *Machine) onButton(ctx context.Context, ev Event) Reply {
	switch ev.Key {
	case KeyHome:
		m.sessions.Clear(ev.UserID)
		return Reply{Text: textChooseAction, Actions: m.mainMenu(ev.UserID)}
	case KeyCategories:
		return m.listCategories(ctx, ev.UserID)
	case KeyCategory:
		return m.showCategory(ctx, ev.Payload)
	case KeyBook:
		return m.showBook(ctx, ev.Payload)
	case KeyDownload:
		return m.download(ctx, ev.Payload)
	case KeySearch:
		return m.startSearch(ev.UserID)
	case KeyCancel:
		return m.cancel(ev.UserID)
	case KeyAdminAdd:
		return m.startAdd(ev.UserID)
	case KeyAdminSetCategory:
		return m.chooseCategory(ctx, ev.UserID, ev.Payload)
	case KeyAdminNewCategory:
		return m.chooseNewCategory(ev.UserID)
	}
	return notice(ErrUnexpectedInput, textChooseAction)
}

func (m *Machine) onText(ctx context.Context, ev Event) Reply {
	st := m.sessions.GetState(ev.UserID)
	switch {
	case st == StateSearchAwaitingQuery:
		return m.search(ctx, ev.UserID, ev.Text)
	case isAdminState(st):
		return m.adminText(ctx, ev.UserID, st, ev.Text)
	}
	return Reply{Text: textChooseAction, Actions: m.mainMenu(ev.UserID), Err: ErrUnexpectedInput}
}

func (m *Machine) onFile(ctx context.Context, ev Event) Reply {
	// Files only ever feed the add-book dialogue.
	if !m.isAdmin(ev.UserID) {
		return denied()
	}
	st := m.sessions.GetState(ev.UserID)
	if !isAdminState(st) {
		return Reply{Text: textChooseAction, Actions: m.mainMenu(ev.UserID), Err: ErrUnexpectedInput}
	}
	return m.adminFile(ctx, ev.UserID, st, ev.File)
}

func (m *Machine) cancel(userID int64) Reply {
	m.sessions.Clear(userID)
	return Reply{Text: textCancelled, Actions: m.mainMenu(userID)}
}

func (m *Machine) mainMenu(userID int64) []Action {
	actions := []Action{
		{Label: labelCategories, Key: KeyCategories},
		{Label: labelSearch, Key: KeySearch},
	}
	if m.isAdmin(userID) {
		actions = append(actions, Action{Label: labelAdminAdd, Key: KeyAdminAdd})
	}
	return actions
}

func cancelActions() []Action {
	return []Action{{Label: labelCancel, Key: KeyCancel}}
}

func unavailable(err error) Reply {
	return Reply{Text: textUnavailable, Alert: true, Err: wrapUnavailable(err)}
}
