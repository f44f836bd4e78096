package catalog

import (
	"strconv"
	"strings"
)

const (
	fallbackSlug = "book"
	// MaxSlugLen keeps ids short enough for Telegram callback data (64 bytes).
	MaxSlugLen = 48
)

func isSlugSeparator(r rune) bool {
	switch r {
	case ' ', '_', '.', ',', '—', '–', ':', ';', '/', '\\', '-':
		return true
	}
	return false
}

// Slugify derives a readable identifier from free text. Only ASCII letters and
// digits survive; separator runs become a single hyphen. Titles without any
// Latin characters fall back to "book". The result is at most MaxSlugLen bytes.
func Slugify(text string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case isSlugSeparator(r):
			pendingDash = true
		}
	}
	out := b.String()
	if len(out) > MaxSlugLen {
		out = strings.TrimRight(out[:MaxSlugLen], "-")
	}
	if out == "" {
		return fallbackSlug
	}
	return out
}

// EnsureUniqueBookID returns base when unused, otherwise the first free base-N for N >= 2.
// Base is shortened as needed so a suffixed id stays within MaxSlugLen bytes.
// The catalog is not modified.
func (c *Catalog) EnsureUniqueBookID(base string) string {
	if c.FindBook(base) == nil {
		return base
	}
	for n := 2; ; n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate := trimForSuffix(base, len(suffix)) + suffix
		if c.FindBook(candidate) == nil {
			return candidate
		}
	}
}

func trimForSuffix(base string, suffixLen int) string {
	if limit := MaxSlugLen - suffixLen; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	if base == "" {
		return fallbackSlug
	}
	return base
}
