package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/librarybot/core/logger"
)

func (m *Machine) startSearch(userID int64) Reply {
	m.sessions.Reset(userID, StateSearchAwaitingQuery)
	return Reply{Text: textSearchAsk, Actions: cancelActions()}
}

// search always returns the user to idle, whatever the outcome.
func (m *Machine) search(ctx context.Context, userID int64, query string) Reply {
	m.sessions.Clear(userID)

	c, err := m.lib.Snapshot(ctx)
	if err != nil {
		return unavailable(err)
	}
	results := c.SearchBooks(query)
	logger.Debug(ctx, "service.flow", "search.done",
		slog.String("query", logger.SanitizeLimit(query, 64)),
		slog.Int("results", len(results)),
	)
	if len(results) == 0 {
		return Reply{Text: textSearchNothing, Actions: m.mainMenu(userID)}
	}
	if len(results) > m.searchLimit {
		results = results[:m.searchLimit]
	}
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("• %s (%s)", bookLine(r.Book.Title, r.Book.Author), r.CategoryTitle))
	}
	return Reply{
		Text:    fmt.Sprintf(textSearchFound, strings.Join(lines, "\n")),
		Actions: m.mainMenu(userID),
	}
}
