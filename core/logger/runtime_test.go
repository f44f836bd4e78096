package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestUpdateMetaRoundTrip(t *testing.T) {
	ctx := WithUpdateMeta(context.Background(), 42, 7, -100123)
	if got := UpdateIDFrom(ctx); got != 42 {
		t.Fatalf("update id = %d", got)
	}
	if got := UserIDFrom(ctx); got != 7 {
		t.Fatalf("user id = %d", got)
	}
	if got := ChatIDFrom(ctx); got != -100123 {
		t.Fatalf("chat id = %d", got)
	}
	if UserIDFrom(context.Background()) != 0 {
		t.Fatal("expected zero user id without metadata")
	}
}

func TestHandlerAndLoggerFromContext(t *testing.T) {
	ctx := WithHandler(context.Background(), "")
	if HandlerFrom(ctx) != "" {
		t.Fatal("empty handler must not be stored")
	}
	ctx = WithHandler(ctx, "cb:cat")
	if got := HandlerFrom(ctx); got != "cb:cat" {
		t.Fatalf("handler = %q", got)
	}

	if FromContext(ctx) != L {
		t.Fatal("expected global logger fallback")
	}
	custom := slog.New(slog.DiscardHandler)
	if FromContext(WithLogger(ctx, custom)) != custom {
		t.Fatal("expected stored logger")
	}
}

func TestSanitizeLimit(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"Тафсир\x00 Ибн\u200b Касира", 64, "Тафсир Ибн Касира"},
		{"line\nnext\ttab\x7f", 64, "line\nnext\ttab"},
		{"Акыда", 3, "Акы"},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		if got := SanitizeLimit(tc.in, tc.max); got != tc.want {
			t.Errorf("SanitizeLimit(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestCompactRID(t *testing.T) {
	cases := map[string]string{
		BuildRID(35, 36, 71): "z.10.1z",
		"not-a-rid":          "not-a-rid",
		"1:x:3":              "1:x:3",
		"":                   "",
	}
	for in, want := range cases {
		if got := CompactRID(in); got != want {
			t.Errorf("CompactRID(%q) = %q, want %q", in, got, want)
		}
	}
}
