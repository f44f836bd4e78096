package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"encoded", &tele.Callback{Data: "\fbook|kitab-at-tawhid"}, "book", "kitab-at-tawhid"},
		{"no payload", &tele.Callback{Data: "\fhome"}, "home", ""},
		{"payload with separator", &tele.Callback{Data: "\fcat|a|b"}, "cat", "a|b"},
		{"matched unique", &tele.Callback{Unique: "dl", Data: "x"}, "dl", "x"},
		{"raw data", &tele.Callback{Data: "cats"}, "cats", ""},
	}
	for _, tc := range cases {
		key, payload := ParseCallbackData(tc.cb)
		if key != tc.key || payload != tc.payload {
			t.Errorf("%s: got (%q, %q), want (%q, %q)", tc.name, key, payload, tc.key, tc.payload)
		}
	}
}
