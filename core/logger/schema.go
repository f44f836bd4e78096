package logger

import "strings"

const (
	// LevelDebug represents the debug severity level name.
	LevelDebug = "DEBUG"
	// LevelInfo represents the info severity level name.
	LevelInfo = "INFO"
	// LevelWarn represents the warning severity level name.
	LevelWarn = "WARN"
	// LevelError represents the error severity level name.
	LevelError = "ERROR"
	// LevelFatal represents the fatal severity level name.
	LevelFatal = "FATAL"
)

var allowedLevels = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

// enum restricts a log field to a known vocabulary. Unknown values are kept
// as is unless drop is set.
type enum struct {
	values map[string]struct{}
	drop   bool
}

func newEnum(drop bool, values ...string) enum {
	e := enum{values: make(map[string]struct{}, len(values)), drop: drop}
	for _, v := range values {
		e.values[v] = struct{}{}
	}
	return e
}

var enumFields = map[string]enum{
	"status":  newEnum(false, "ok", "fail", "skip", "retry", "rate_limited", "cancelled"),
	"outcome": newEnum(true, "ok", "fail", "rejected", "cancelled", "rate_limited"),
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := allowedLevels[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeEnums(fields map[string]any) {
	for key, e := range enumFields {
		raw, ok := fields[key].(string)
		if !ok {
			continue
		}
		v := strings.ToLower(strings.TrimSpace(raw))
		if _, known := e.values[v]; known || !e.drop {
			fields[key] = v
			continue
		}
		delete(fields, key)
	}
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"operation",
	"op",
	"cb_key",
	"outcome",
	"duration_ms",
	"messages",
	"documents",
	"kb",
	"count",
	"page",
	"pages",
	"payload",
	"lang",
	"username",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"db",
	"host",
	"port",
	"state",
	"from_state",
	"category_id",
	"book_id",
	"query",
	"results",
	"books",
	"driver",
	"path",
	"err",
	"err_code",
	"cause",
	"retryable",
	"attempts",
	"backoff_ms",
	"rate_limited",
	"collapsed",
	"repeats",
	"pending_count",
}
