package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// capture renders one event through a fresh handler and returns the line.
func capture(t *testing.T, format logFormat, ctx context.Context, component, event string, attrs ...slog.Attr) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: format,
	})
	LogEvent(ctx, slog.New(handler).With("component", component), slog.LevelInfo, event, attrs...)
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	return line
}

func assertOrdered(t *testing.T, line string, parts ...string) {
	t.Helper()
	pos := -1
	for _, p := range parts {
		idx := strings.Index(line, p)
		if idx == -1 || idx < pos {
			t.Fatalf("%q not found in order within %s", p, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-123"), 42, 7, 9)
	line := capture(t, formatKV, ctx, "app", "test.event",
		slog.String("zeta", "last"),
		slog.String("cause", "unit"),
		slog.String("status", "ok"),
	)
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123"}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
	assertOrdered(t, line, "update_id=42", "user_id=7", "chat_id=9", "cause=unit", "zeta=last")
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-json"), 11, 22, 33)
	line := capture(t, formatJSON, ctx, "service.catalog", "catalog.saved",
		slog.String("status", "fail"),
		slog.String("err_code", "STORE_CORRUPT"),
	)
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	assertOrdered(t, line, `{"ts":`, `"level":"INFO"`, `"component":"service.catalog"`,
		`"event":"catalog.saved"`, `"status":"fail"`, `"rid":"rid-json"`, `"err_code":"STORE_CORRUPT"`)
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	const raw = "123:456:789"
	kv := capture(t, formatKV, WithRID(context.Background(), raw), "app", "rid.test")
	if !strings.Contains(kv, "rid="+CompactRID(raw)) || strings.Contains(kv, "rid_full=") {
		t.Fatalf("unexpected KV rid rendering: %s", kv)
	}

	js := capture(t, formatJSON, WithRID(context.Background(), raw), "app", "rid.test")
	for _, want := range []string{`"rid":"` + CompactRID(raw) + `"`, `"rid_full":"` + raw + `"`, `"ts_unix_nano"`} {
		if !strings.Contains(js, want) {
			t.Fatalf("expected %s in %s", want, js)
		}
	}
}

func TestStructuredHandlerNormalizesValues(t *testing.T) {
	line := capture(t, formatKV, context.Background(), "store", "catalog.saved",
		slog.Duration("duration", 1499*time.Microsecond),
		slog.Duration("wait", 2*time.Second),
		slog.String("outcome", "exploded"),
		slog.String("status", " OK "),
		slog.String("title", "Тафсир Ибн Касира"),
		slog.String("empty", ""),
		slog.Group("book", slog.String("id", "tafsir-ibn-kathir")),
	)
	for _, want := range []string{"duration_ms=1", "wait_ms=2000", "status=ok", `title="Тафсир Ибн Касира"`, "book.id=tafsir-ibn-kathir"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
	for _, unwanted := range []string{"outcome=", "empty="} {
		if strings.Contains(line, unwanted) {
			t.Fatalf("unexpected %s in %s", unwanted, line)
		}
	}
}

func TestStructuredHandlerDefaultsEventAndComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	log := slog.New(newStructuredHandler(handlerConfig{writer: aw, format: formatKV}))
	log.Info("plain message")
	log.Debug("filtered")
	if err := aw.Close(); err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "filtered") {
		t.Fatalf("debug line leaked through info handler: %s", line)
	}
	assertOrdered(t, line, "component=app", `event="plain message"`)
}

func TestStructuredHandlerCatalogCountsOrder(t *testing.T) {
	line := capture(t, formatKV, context.Background(), "catalog", "catalog.loaded",
		slog.String("path", "data/catalog.json"),
		slog.String("driver", "file"),
		slog.Int("books", 12),
		slog.Int("categories", 3),
		slog.Int("results", 4),
	)
	assertOrdered(t, line, "results=4", "books=12", "driver=file", "path=data/catalog.json")
}
