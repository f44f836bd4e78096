package flow

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/librarybot/internal/catalog"
)

func TestSearchFlow(t *testing.T) {
	h := newHarness(t, seeded())

	r := h.ok(Button(memberID, KeySearch, ""))
	assert.Equal(t, textSearchAsk, r.Text)
	assert.Equal(t, StateSearchAwaitingQuery, h.m.State(memberID))

	r = h.ok(Text(memberID, "KATHIR"))
	assert.Equal(t, "Нашёл:\n• Tafsir Ibn Kathir — Ibn Kathir (Тафсир)\n\nОткройте «Категории», чтобы скачать.", r.Text)
	assert.Equal(t, StateIdle, h.m.State(memberID))
}

func TestSearchWithoutResultsReturnsToIdle(t *testing.T) {
	h := newHarness(t, seeded())

	for _, q := range []string{"nothing like this", "   "} {
		h.ok(Command(memberID, "/search"))
		r := h.ok(Text(memberID, q))
		assert.Equal(t, textSearchNothing, r.Text)
		assert.Equal(t, StateIdle, h.m.State(memberID))
	}
}

func TestSearchResultsAreCapped(t *testing.T) {
	c := catalog.Empty()
	c.UpsertCategory("big", "Big")
	for i := 1; i <= 20; i++ {
		require.NoError(t, c.AddBookToCategory("big", catalog.Book{ID: fmt.Sprintf("b%d", i), Title: fmt.Sprintf("Volume %d", i)}))
	}
	h := newHarness(t, c)

	h.ok(Button(memberID, KeySearch, ""))
	r := h.ok(Text(memberID, "volume"))
	assert.Equal(t, DefaultSearchLimit, strings.Count(r.Text, "• "))
	assert.Contains(t, r.Text, "Volume 15 (Big)")
	assert.NotContains(t, r.Text, "Volume 16")

	h2 := newHarness(t, c, WithSearchLimit(3))
	h2.ok(Button(memberID, KeySearch, ""))
	r = h2.ok(Text(memberID, "volume"))
	assert.Equal(t, 3, strings.Count(r.Text, "• "))

	h3 := newHarness(t, c, WithSearchLimit(50))
	h3.ok(Button(memberID, KeySearch, ""))
	r = h3.ok(Text(memberID, "volume"))
	assert.Equal(t, DefaultSearchLimit, strings.Count(r.Text, "• "))
	assert.NotContains(t, r.Text, "Volume 16")
}

func TestSearchSupersedesAddBook(t *testing.T) {
	h := newHarness(t, seeded())

	h.ok(Command(adminID, "/add"))
	h.ok(File(adminID, Attachment{Reference: "F", FileName: "a.pdf"}))
	h.ok(Button(adminID, KeyAdminSetCategory, "tafsir"))
	require.Equal(t, StateAdminAwaitingTitle, h.m.State(adminID))

	h.ok(Button(adminID, KeySearch, ""))
	assert.Equal(t, StateSearchAwaitingQuery, h.m.State(adminID))
	assert.Equal(t, Draft{}, h.m.sessions.Get(adminID).Draft, "draft discarded")

	h.ok(Text(adminID, "Kitab"))
	assert.Equal(t, 2, h.snapshot().BookCount(), "nothing committed")
}
