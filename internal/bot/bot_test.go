package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/librarybot/core/state"
	tg "github.com/m3rciful/librarybot/core/telegram"
	"github.com/m3rciful/librarybot/internal/access"
	"github.com/m3rciful/librarybot/internal/catalog"
	"github.com/m3rciful/librarybot/internal/flow"

	tele "gopkg.in/telebot.v4"
)

func TestMarkupOneButtonPerRow(t *testing.T) {
	m := markup([]flow.Action{
		{Label: "Тафсир", Key: flow.KeyCategory, Payload: "tafsir"},
		{Label: "⬅️ Назад", Key: flow.KeyHome},
	})
	require.NotNil(t, m)
	require.Len(t, m.InlineKeyboard, 2)
	btn := m.InlineKeyboard[0][0]
	assert.Equal(t, "Тафсир", btn.Text)
	assert.Equal(t, flow.KeyCategory, btn.Unique)
	assert.Equal(t, "tafsir", btn.Data)

	assert.Nil(t, markup(nil))
}

func TestDocumentUsesStoredFileID(t *testing.T) {
	d := document(&flow.Document{Reference: "BQACAgI", FileName: "kitab.pdf", Caption: "Kitab — Author"})
	assert.Equal(t, "BQACAgI", d.FileID)
	assert.Equal(t, "kitab.pdf", d.FileName)
	assert.Equal(t, "Kitab — Author", d.Caption)
}

func TestMessageEvent(t *testing.T) {
	user := &tele.User{ID: 5}

	ev, ok := messageEvent(user, &tele.Message{Text: "tafsir"})
	require.True(t, ok)
	assert.Equal(t, flow.Text(5, "tafsir"), ev)

	ev, ok = messageEvent(user, &tele.Message{Document: &tele.Document{
		File:     tele.File{FileID: "F1"},
		FileName: "a.epub",
		MIME:     "application/epub+zip",
	}})
	require.True(t, ok)
	assert.Equal(t, flow.File(5, flow.Attachment{Reference: "F1", FileName: "a.epub", MediaType: "application/epub+zip"}), ev)

	_, ok = messageEvent(nil, &tele.Message{Text: "x"})
	assert.False(t, ok)
	_, ok = messageEvent(user, nil)
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	lib := catalog.NewLibrary(catalog.NewFileStore(t.TempDir() + "/catalog.json"))
	h := New(flow.New(lib, access.New([]int64{1}), state.NewMemoryManager[flow.Draft]()))
	reg := tg.NewRegistry()

	require.NoError(t, h.Register(reg))

	assert.Equal(t, flow.Keys, sortedLike(reg.ListCallbacks(), flow.Keys))
	_, add, ok := reg.LookupCommand("add")
	require.True(t, ok)
	assert.True(t, add.AdminOnly)

	key, _, ok := reg.LookupCommand("cats")
	require.True(t, ok)
	assert.Equal(t, "/categories", key)

	visible := reg.ListCommands(true)
	for _, c := range visible {
		assert.NotEqual(t, "/add", c.Text, "admin commands stay out of the public menu")
		assert.NotEqual(t, "/help", c.Text)
	}
	assert.NotNil(t, reg.TextFallback())

	assert.Error(t, h.Register(reg), "callbacks cannot be registered twice")
}

// sortedLike returns got reordered to follow want, so set equality reads as slice equality.
func sortedLike(got, want []string) []string {
	index := make(map[string]bool, len(got))
	for _, g := range got {
		index[g] = true
	}
	out := make([]string, 0, len(want))
	for _, w := range want {
		if index[w] {
			out = append(out, w)
		}
	}
	if len(out) != len(got) {
		return got
	}
	return out
}
