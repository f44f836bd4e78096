package keyboard

import "testing"

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "Категории", Unique: "cats"},
		{Text: "Поиск", Unique: "search_ask"},
	})
	if markup == nil {
		t.Fatal("expected markup")
	}
	if got := len(markup.InlineKeyboard); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	first := markup.InlineKeyboard[0][0]
	if first.Text != "Категории" || first.Unique != "cats" {
		t.Fatalf("unexpected first button: %+v", first)
	}
}

func TestInlineButtonsRowsCarriesPayload(t *testing.T) {
	markup := InlineButtonsRows([]InlineBtn{{Text: "📥 Скачать", Unique: "dl", Data: "kitab-at-tawhid"}})
	btn := markup.InlineKeyboard[0][0]
	if btn.Data != "kitab-at-tawhid" {
		t.Fatalf("data = %q, want kitab-at-tawhid", btn.Data)
	}
}

func TestInlineButtonsEmpty(t *testing.T) {
	if InlineButtons(nil) != nil {
		t.Fatal("expected nil markup for no buttons")
	}
}
