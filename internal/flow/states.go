package flow

import (
	"strings"

	"github.com/m3rciful/librarybot/core/state"
)

const (
	StateIdle                    state.State = state.StateIdle
	StateSearchAwaitingQuery     state.State = "search.awaiting_query"
	StateAdminAwaitingFile       state.State = "admin.awaiting_file"
	StateAdminAwaitingCategory   state.State = "admin.awaiting_category_choice"
	StateAdminAwaitingNewCatID   state.State = "admin.awaiting_new_category_id"
	StateAdminAwaitingNewCatName state.State = "admin.awaiting_new_category_title"
	StateAdminAwaitingTitle      state.State = "admin.awaiting_title"
	StateAdminAwaitingAuthor     state.State = "admin.awaiting_author"
	StateAdminAwaitingDesc       state.State = "admin.awaiting_description"
)

// Draft accumulates the pending book while an admin walks through the add flow.
type Draft struct {
	FileReference string
	FileName      string
	Format        string
	CategoryID    string
	Title         string
	Author        string
}

func isAdminState(st state.State) bool {
	return strings.HasPrefix(string(st), "admin.")
}
