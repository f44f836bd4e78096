// Package bot adapts the conversation machine to Telegram: it turns telebot
// updates into flow events and renders replies as messages, inline keyboards,
// callback answers and documents.
package bot

import (
	"log/slog"

	"github.com/m3rciful/librarybot/core/logger"
	tg "github.com/m3rciful/librarybot/core/telegram"
	"github.com/m3rciful/librarybot/core/telegram/callbacks"
	"github.com/m3rciful/librarybot/core/telegram/commands"
	tghelpers "github.com/m3rciful/librarybot/core/telegram/helpers"
	"github.com/m3rciful/librarybot/core/telegram/ui"
	"github.com/m3rciful/librarybot/internal/flow"

	tele "gopkg.in/telebot.v4"
)

const (
	textUnknownAction = "Неизвестное действие"
	textTooFast       = "Слишком часто, подождите немного"
)

// Handler owns the Telegram-facing handlers of the library bot.
type Handler struct {
	machine *flow.Machine
}

// New wraps a conversation machine.
func New(m *flow.Machine) *Handler {
	return &Handler{machine: m}
}

// Register adds the bot's commands, callbacks and fallbacks to the registry.
func (h *Handler) Register(reg *tg.Registry) error {
	reg.RegisterCommand("/start", commands.Command{Handler: h.command("start"), Description: "Главное меню"})
	reg.RegisterCommand("/help", commands.Command{Handler: h.command("help"), Description: "Помощь", Hidden: true})
	reg.RegisterCommand("/categories", commands.Command{Handler: h.command("categories"), Description: "Категории книг", Aliases: []string{"cats"}})
	reg.RegisterCommand("/search", commands.Command{Handler: h.command("search"), Description: "Поиск по названию или автору"})
	reg.RegisterCommand("/cancel", commands.Command{Handler: h.command("cancel"), Description: "Отменить текущее действие"})
	reg.RegisterCommand("/add", commands.Command{Handler: h.command("add"), Description: "Добавить книгу", AdminOnly: true})

	for _, key := range flow.Keys {
		if err := reg.RegisterCallback(key, h.callback(key)); err != nil {
			return err
		}
	}
	ui.Install(reg, h)
	return nil
}

// InProgress reports whether the user is inside a dialogue; text and files go to the machine then.
func (h *Handler) InProgress(userID int64) bool {
	return h.machine.InProgress(userID)
}

// Continue feeds a text or document message into the active dialogue.
func (h *Handler) Continue(c tele.Context) error {
	ev, ok := messageEvent(c.Sender(), c.Message())
	if !ok {
		return nil
	}
	return h.dispatch(c, ev)
}

// UnknownText answers free text outside any dialogue with the main menu.
func (h *Handler) UnknownText() tele.HandlerFunc {
	return h.Continue
}

// UnknownDocument lets the machine decide about files sent outside the add-book dialogue.
func (h *Handler) UnknownDocument() tele.HandlerFunc {
	return h.Continue
}

// UnknownCallback answers stale or foreign buttons.
func (h *Handler) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: textUnknownAction})
	}
}

// AdminRejected routes a rejected admin-only command through the machine so the
// user gets the same notice as for the admin button.
func (h *Handler) AdminRejected(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return h.dispatch(c, flow.Command(user.ID, c.Text()))
}

// RateLimited tells button users why nothing happened; messages are dropped silently.
func (h *Handler) RateLimited(c tele.Context) error {
	if c.Callback() == nil {
		return nil
	}
	return c.Respond(&tele.CallbackResponse{Text: textTooFast})
}

func (h *Handler) command(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		user := c.Sender()
		if user == nil {
			return nil
		}
		return h.dispatch(c, flow.Command(user.ID, name))
	}
}

func (h *Handler) callback(key string) tele.HandlerFunc {
	return func(c tele.Context) error {
		user := c.Sender()
		if user == nil {
			return c.Respond()
		}
		_, payload := callbacks.ParseCallbackData(c.Callback())
		return h.dispatch(c, flow.Button(user.ID, key, payload))
	}
}

func (h *Handler) dispatch(c tele.Context, ev flow.Event) error {
	ctx := tghelpers.BuildContext(c)
	r := h.machine.Handle(ctx, ev)
	if err := render(c, r); err != nil {
		logger.Warn(ctx, "tg", "render.failed",
			slog.String("state", string(h.machine.State(ev.UserID))),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}

// messageEvent maps an incoming message to a text or file event.
func messageEvent(user *tele.User, msg *tele.Message) (flow.Event, bool) {
	if user == nil || msg == nil {
		return flow.Event{}, false
	}
	if doc := msg.Document; doc != nil {
		return flow.File(user.ID, flow.Attachment{
			Reference: doc.FileID,
			FileName:  doc.FileName,
			MediaType: doc.MIME,
		}), true
	}
	return flow.Text(user.ID, msg.Text), true
}
