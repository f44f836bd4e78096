package bot

import (
	tghelpers "github.com/m3rciful/librarybot/core/telegram/helpers"
	"github.com/m3rciful/librarybot/core/telegram/keyboard"
	"github.com/m3rciful/librarybot/internal/flow"

	tele "gopkg.in/telebot.v4"
)

// markup turns actions into an inline keyboard with one button per row.
func markup(actions []flow.Action) *tele.ReplyMarkup {
	if len(actions) == 0 {
		return nil
	}
	btns := make([]keyboard.InlineBtn, 0, len(actions))
	for _, a := range actions {
		btns = append(btns, keyboard.InlineBtn{Text: a.Label, Unique: a.Key, Data: a.Payload})
	}
	return keyboard.InlineButtons(btns)
}

func document(d *flow.Document) *tele.Document {
	return &tele.Document{
		File:     tele.File{FileID: d.Reference},
		FileName: d.FileName,
		Caption:  d.Caption,
	}
}

// render shows a reply. Button presses edit the message they came from;
// alerts become callback popups. Plain text is sent without a parse mode.
func render(c tele.Context, r flow.Reply) error {
	fromButton := c.Callback() != nil
	if fromButton {
		if r.Alert {
			return c.Respond(&tele.CallbackResponse{Text: r.Text, ShowAlert: true})
		}
		if err := c.Respond(); err != nil {
			return err
		}
	}

	if r.Document != nil {
		return tghelpers.SendDocument(c, document(r.Document))
	}
	if r.Text == "" {
		return nil
	}
	opts := &tele.SendOptions{ReplyMarkup: markup(r.Actions)}
	if fromButton {
		return c.EditOrSend(r.Text, opts)
	}
	return tghelpers.SendText(c, r.Text, opts)
}
