package flow

import (
	"context"
	"fmt"

	"github.com/m3rciful/librarybot/internal/catalog"
)

func categoryActions(cats []catalog.Category, key string) []Action {
	actions := make([]Action, 0, len(cats)+1)
	for _, c := range cats {
		actions = append(actions, Action{Label: c.Title, Key: key, Payload: c.ID})
	}
	return actions
}

func (m *Machine) listCategories(ctx context.Context, userID int64) Reply {
	c, err := m.lib.Snapshot(ctx)
	if err != nil {
		return unavailable(err)
	}
	if len(c.Categories) == 0 {
		return Reply{Text: textNoCategories, Actions: m.mainMenu(userID)}
	}
	return Reply{Text: textCategories, Actions: browseCategories(c)}
}

func browseCategories(c *catalog.Catalog) []Action {
	actions := categoryActions(c.Categories, KeyCategory)
	return append(actions, Action{Label: labelBack, Key: KeyHome})
}

func (m *Machine) showCategory(ctx context.Context, id string) Reply {
	c, err := m.lib.Snapshot(ctx)
	if err != nil {
		return unavailable(err)
	}
	cat := c.FindCategory(id)
	if cat == nil {
		return notice(ErrNotFound, textCategoryAbsent)
	}
	if len(cat.Books) == 0 {
		return Reply{Text: fmt.Sprintf(textCategoryEmpty, cat.Title), Actions: browseCategories(c)}
	}
	actions := make([]Action, 0, len(cat.Books)+1)
	for _, b := range cat.Books {
		actions = append(actions, Action{Label: b.Title, Key: KeyBook, Payload: b.ID})
	}
	actions = append(actions, Action{Label: labelBackToCats, Key: KeyCategories})
	return Reply{Text: fmt.Sprintf(textBooksIn, cat.Title), Actions: actions}
}

func (m *Machine) showBook(ctx context.Context, id string) Reply {
	c, err := m.lib.Snapshot(ctx)
	if err != nil {
		return unavailable(err)
	}
	b := c.FindBook(id)
	if b == nil {
		return notice(ErrNotFound, textBookAbsent)
	}
	return Reply{
		Text: fmt.Sprintf(textBookCard, b.Title, b.Author, b.Format, b.Description),
		Actions: []Action{
			{Label: labelDownload, Key: KeyDownload, Payload: b.ID},
			{Label: labelBack, Key: KeyCategories},
		},
	}
}

func (m *Machine) download(ctx context.Context, id string) Reply {
	c, err := m.lib.Snapshot(ctx)
	if err != nil {
		return unavailable(err)
	}
	b := c.FindBook(id)
	if b == nil {
		return notice(ErrNotFound, textBookAbsent)
	}
	if b.FileReference == "" {
		return notice(ErrNoFileAttached, textNoFile)
	}
	return Reply{Document: &Document{
		Reference: b.FileReference,
		FileName:  b.FileName,
		Caption:   bookLine(b.Title, b.Author),
	}}
}

// bookLine joins title and author with a spaced dash, or returns the title when the author is unknown.
func bookLine(title, author string) string {
	if author == "" {
		return title
	}
	return title + " — " + author
}
