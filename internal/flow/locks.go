package flow

import "sync"

type userLock struct {
	sync.Mutex
	refs int
}

// userLocks hands out one mutex per user and forgets it once nobody waits on it.
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*userLock
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	ul, ok := l.m[userID]
	if !ok {
		ul = &userLock{}
		l.m[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.Lock()
	return func() {
		ul.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.m, userID)
		}
		l.mu.Unlock()
	}
}
