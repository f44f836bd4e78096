package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/librarybot/core/logger"
	"github.com/m3rciful/librarybot/core/state"
	"github.com/m3rciful/librarybot/internal/catalog"
)

func denied() Reply {
	return notice(ErrAccessDenied, textAccessDenied)
}

func (m *Machine) startAdd(userID int64) Reply {
	if !m.isAdmin(userID) {
		return denied()
	}
	m.sessions.Reset(userID, StateAdminAwaitingFile)
	return Reply{Text: textAdminAskFile, Actions: cancelActions()}
}

// formatLabel names the file format from its extension, falling back to the media type.
func formatLabel(att Attachment) string {
	name := strings.ToLower(att.FileName)
	switch {
	case strings.HasSuffix(name, ".epub"):
		return "EPUB"
	case strings.HasSuffix(name, ".pdf"):
		return "PDF"
	}
	return att.MediaType
}

func (m *Machine) adminFile(ctx context.Context, userID int64, st state.State, att Attachment) Reply {
	if !m.isAdmin(userID) {
		return denied()
	}
	if st != StateAdminAwaitingFile {
		return m.reprompt(ctx, userID, st)
	}

	c, err := m.lib.Snapshot(ctx)
	if err != nil {
		return unavailable(err)
	}
	m.sessions.UpdateDraft(userID, func(d *Draft) {
		d.FileReference = att.Reference
		d.FileName = att.FileName
		d.Format = formatLabel(att)
	})
	if len(c.Categories) == 0 {
		m.sessions.SetState(userID, StateAdminAwaitingNewCatID)
		return Reply{Text: textAdminNoCategories, Actions: cancelActions()}
	}
	m.sessions.SetState(userID, StateAdminAwaitingCategory)
	return Reply{Text: textAdminChooseCategory, Actions: chooseCategoryActions(c)}
}

func chooseCategoryActions(c *catalog.Catalog) []Action {
	actions := categoryActions(c.Categories, KeyAdminSetCategory)
	return append(actions,
		Action{Label: labelNewCat, Key: KeyAdminNewCategory},
		Action{Label: labelCancel, Key: KeyCancel},
	)
}

func (m *Machine) chooseCategory(ctx context.Context, userID int64, categoryID string) Reply {
	if !m.isAdmin(userID) {
		return denied()
	}
	if st := m.sessions.GetState(userID); st != StateAdminAwaitingCategory {
		return notice(ErrUnexpectedInput, textChooseAction)
	}
	c, err := m.lib.Snapshot(ctx)
	if err != nil {
		return unavailable(err)
	}
	if c.FindCategory(categoryID) == nil {
		return notice(ErrNotFound, textCategoryAbsent)
	}
	m.sessions.UpdateDraft(userID, func(d *Draft) { d.CategoryID = categoryID })
	m.sessions.SetState(userID, StateAdminAwaitingTitle)
	return Reply{Text: textAdminAskTitle, Actions: cancelActions()}
}

func (m *Machine) chooseNewCategory(userID int64) Reply {
	if !m.isAdmin(userID) {
		return denied()
	}
	if st := m.sessions.GetState(userID); st != StateAdminAwaitingCategory {
		return notice(ErrUnexpectedInput, textChooseAction)
	}
	m.sessions.SetState(userID, StateAdminAwaitingNewCatID)
	return Reply{Text: textAdminAskNewCatID, Actions: cancelActions()}
}

// maxCategoryIDLen keeps "admin_set_cat" callback data within Telegram's 64 bytes.
const maxCategoryIDLen = 32

func validCategoryID(id string) bool {
	if id == "" || len(id) > maxCategoryIDLen {
		return false
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	return true
}

func (m *Machine) adminText(ctx context.Context, userID int64, st state.State, text string) Reply {
	if !m.isAdmin(userID) {
		return denied()
	}
	text = strings.TrimSpace(text)

	switch st {
	case StateAdminAwaitingNewCatID:
		id := strings.ToLower(text)
		if !validCategoryID(id) {
			return Reply{Text: textAdminBadCatID, Actions: cancelActions(), Err: ErrValidation}
		}
		m.sessions.UpdateDraft(userID, func(d *Draft) { d.CategoryID = id })
		m.sessions.SetState(userID, StateAdminAwaitingNewCatName)
		return Reply{Text: textAdminAskNewCatTitle, Actions: cancelActions()}

	case StateAdminAwaitingNewCatName:
		if text == "" {
			return Reply{Text: textAdminEmptyCatTitle, Actions: cancelActions(), Err: ErrValidation}
		}
		id := m.sessions.Get(userID).Draft.CategoryID
		// The category is saved right away and survives a later cancel.
		err := m.lib.Update(ctx, func(c *catalog.Catalog) error {
			c.UpsertCategory(id, text)
			return nil
		})
		if err != nil {
			return unavailable(err)
		}
		logger.Info(ctx, "service.flow", "category.saved",
			slog.String("category_id", id),
		)
		m.sessions.SetState(userID, StateAdminAwaitingTitle)
		return Reply{Text: textAdminCategoryMade, Actions: cancelActions()}

	case StateAdminAwaitingTitle:
		if text == "" {
			return Reply{Text: textAdminEmptyTitle, Actions: cancelActions(), Err: ErrValidation}
		}
		m.sessions.UpdateDraft(userID, func(d *Draft) { d.Title = text })
		m.sessions.SetState(userID, StateAdminAwaitingAuthor)
		return Reply{Text: textAdminAskAuthor, Actions: cancelActions()}

	case StateAdminAwaitingAuthor:
		m.sessions.UpdateDraft(userID, func(d *Draft) { d.Author = optional(text) })
		m.sessions.SetState(userID, StateAdminAwaitingDesc)
		return Reply{Text: textAdminAskDesc, Actions: cancelActions()}

	case StateAdminAwaitingDesc:
		return m.commitBook(ctx, userID, optional(text))
	}
	return m.reprompt(ctx, userID, st)
}

func optional(text string) string {
	if text == skipMarker {
		return ""
	}
	return text
}

func (m *Machine) commitBook(ctx context.Context, userID int64, description string) Reply {
	d := m.sessions.Get(userID).Draft
	var book catalog.Book
	err := m.lib.Update(ctx, func(c *catalog.Catalog) error {
		book = catalog.Book{
			ID:            c.EnsureUniqueBookID(catalog.Slugify(d.Title)),
			Title:         d.Title,
			Author:        d.Author,
			Description:   description,
			Format:        d.Format,
			FileReference: d.FileReference,
			FileName:      d.FileName,
		}
		return c.AddBookToCategory(d.CategoryID, book)
	})
	if errors.Is(err, catalog.ErrCategoryNotFound) {
		m.sessions.Clear(userID)
		return Reply{
			Text:    fmt.Sprintf(textAdminCategoryLost, d.CategoryID),
			Actions: m.mainMenu(userID),
			Err:     fmt.Errorf("%w: %w", ErrNotFound, err),
		}
	}
	if err != nil {
		return unavailable(err)
	}

	m.sessions.Clear(userID)
	logger.Info(ctx, "service.flow", "book.added",
		slog.String("book_id", book.ID),
		slog.String("category_id", d.CategoryID),
	)
	return Reply{
		Text:    fmt.Sprintf(textAdminDone, book.ID, bookLine(book.Title, book.Author), d.CategoryID),
		Actions: m.mainMenu(userID),
	}
}

// reprompt repeats the current step for input that does not belong to it.
func (m *Machine) reprompt(ctx context.Context, userID int64, st state.State) Reply {
	r := Reply{Actions: cancelActions(), Err: ErrUnexpectedInput}
	switch st {
	case StateAdminAwaitingFile:
		r.Text = textAdminAskFile
	case StateAdminAwaitingCategory:
		c, err := m.lib.Snapshot(ctx)
		if err != nil {
			return unavailable(err)
		}
		r.Text = textAdminChooseCategory
		r.Actions = chooseCategoryActions(c)
	case StateAdminAwaitingNewCatID:
		r.Text = textAdminAskNewCatID
	case StateAdminAwaitingNewCatName:
		r.Text = textAdminAskNewCatTitle
	case StateAdminAwaitingTitle:
		r.Text = textAdminAskTitle
	case StateAdminAwaitingAuthor:
		r.Text = textAdminAskAuthor
	case StateAdminAwaitingDesc:
		r.Text = textAdminAskDesc
	default:
		r.Text = textChooseAction
		r.Actions = m.mainMenu(userID)
	}
	return r
}
