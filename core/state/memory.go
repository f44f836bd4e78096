package state

import "sync"

type memoryManager[D any] struct {
	mu       sync.RWMutex
	sessions map[int64]*Session[D]
}

// NewMemoryManager constructs an in-memory Manager. Sessions do not survive restarts.
func NewMemoryManager[D any]() Manager[D] {
	return &memoryManager[D]{
		sessions: make(map[int64]*Session[D]),
	}
}

// Get returns the session for a user if it exists, otherwise returns a default idle session.
func (m *memoryManager[D]) Get(userID int64) Session[D] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, ok := m.sessions[userID]; ok {
		return *session
	}
	return Session[D]{State: StateIdle}
}

// Reset replaces the user's session with an empty one in the given state.
// Resetting to StateIdle is equivalent to Clear.
func (m *memoryManager[D]) Reset(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st == StateIdle {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = &Session[D]{State: st}
}

// SetState sets the FSM state for the given user, creating a session if necessary.
func (m *memoryManager[D]) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		if st == StateIdle {
			return
		}
		sess = &Session[D]{}
		m.sessions[userID] = sess
	}
	sess.State = st
}

// UpdateDraft mutates the draft of an existing session. It is a no-op for idle users.
func (m *memoryManager[D]) UpdateDraft(userID int64, fn func(*D)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[userID]; ok {
		fn(&sess.Draft)
	}
}

// Clear removes the entire session for a user.
func (m *memoryManager[D]) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager[D]) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager[D]) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return ok && sess.State != StateIdle
}

// Len reports the number of active sessions.
func (m *memoryManager[D]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
