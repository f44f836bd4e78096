package state

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state and the partially collected draft for a user.
type Session[D any] struct {
	State State
	Draft D
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager[D any] interface {
	// Get returns a copy of the user's session, or an idle session with a zero draft.
	Get(userID int64) Session[D]
	// Reset starts a fresh session in the given state, discarding any previous draft.
	Reset(userID int64, st State)
	// SetState moves an existing session to st keeping its draft.
	SetState(userID int64, st State)
	// UpdateDraft applies fn to the user's draft in place.
	UpdateDraft(userID int64, fn func(*D))
	// Clear removes the entire session for a user.
	Clear(userID int64)

	GetState(userID int64) State
	InProgress(userID int64) bool
	Len() int
}
