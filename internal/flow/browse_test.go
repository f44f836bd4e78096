package flow

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/librarybot/internal/catalog"
)

func TestListCategoriesEmptyCatalog(t *testing.T) {
	h := newHarness(t, nil)

	r := h.ok(Button(memberID, KeyCategories, ""))
	assert.Equal(t, textNoCategories, r.Text)
	assert.Equal(t, []string{KeyCategories, KeySearch}, keys(r.Actions))
	assert.JSONEq(t, `{"categories":[]}`, h.raw(), "first load persists the empty document")
}

func TestBrowseCategoriesAndBooks(t *testing.T) {
	h := newHarness(t, seeded())

	r := h.ok(Command(memberID, "/categories"))
	assert.Equal(t, textCategories, r.Text)
	require.Len(t, r.Actions, 3)
	assert.Equal(t, Action{Label: "Тафсир", Key: KeyCategory, Payload: "tafsir"}, r.Actions[0])
	assert.Equal(t, KeyHome, r.Actions[2].Key)

	r = h.ok(Button(memberID, KeyCategory, "tafsir"))
	assert.Equal(t, "Книги: Тафсир", r.Text)
	assert.Equal(t, []string{KeyBook, KeyBook, KeyCategories}, keys(r.Actions))
	assert.Equal(t, "tafsir-ibn-kathir", r.Actions[0].Payload)

	r = h.ok(Button(memberID, KeyCategory, "empty"))
	assert.Equal(t, "Категория: Пусто\nПока пусто.", r.Text)
	assert.Equal(t, KeyCategory, r.Actions[0].Key)

	r = h.ok(Button(memberID, KeyBook, "tafsir-ibn-kathir"))
	assert.Equal(t, "📘 Tafsir Ibn Kathir\n✍️ Ibn Kathir\n📄 Формат: PDF\n\nКлассический тафсир", r.Text)
	assert.Equal(t, Action{Label: labelDownload, Key: KeyDownload, Payload: "tafsir-ibn-kathir"}, r.Actions[0])
}

func TestBrowseNotFound(t *testing.T) {
	h := newHarness(t, seeded())

	for _, ev := range []Event{
		Button(memberID, KeyCategory, "nope"),
		Button(memberID, KeyBook, "nope"),
		Button(memberID, KeyDownload, "nope"),
	} {
		r := h.do(ev)
		assert.ErrorIs(t, r.Err, ErrNotFound, "event %+v", ev)
		assert.True(t, r.Alert)
		assert.Nil(t, r.Document)
	}
}

func TestDownload(t *testing.T) {
	h := newHarness(t, seeded())

	r := h.ok(Button(memberID, KeyDownload, "tafsir-ibn-kathir"))
	require.NotNil(t, r.Document)
	assert.Equal(t, Document{Reference: "FILE-1", FileName: "ibn-kathir.pdf", Caption: "Tafsir Ibn Kathir — Ibn Kathir"}, *r.Document)

	r = h.do(Button(memberID, KeyDownload, "no-file"))
	assert.ErrorIs(t, r.Err, ErrNoFileAttached)
	assert.Nil(t, r.Document)
}

func TestCorruptCatalogIsReported(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, os.WriteFile(h.path, []byte("{not json"), 0o644))

	r := h.do(Button(memberID, KeyCategories, ""))
	assert.ErrorIs(t, r.Err, ErrCatalogUnavailable)
	assert.ErrorIs(t, r.Err, catalog.ErrStoreCorrupt)
	assert.Equal(t, textUnavailable, r.Text)
	assert.Equal(t, "{not json", h.raw())
}
