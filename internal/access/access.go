// Package access decides which Telegram users may use admin features.
package access

// Set is an immutable collection of admin user ids.
// The zero value and an empty set grant nothing.
type Set struct {
	ids map[int64]struct{}
}

// New builds a set from the configured ids. Non-positive ids are ignored.
func New(ids []int64) Set {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id > 0 {
			m[id] = struct{}{}
		}
	}
	return Set{ids: m}
}

// IsAdmin reports membership; it never fails.
func (s Set) IsAdmin(userID int64) bool {
	_, ok := s.ids[userID]
	return ok
}

// Len returns the number of admins.
func (s Set) Len() int { return len(s.ids) }

// Enabled reports whether any admin is configured.
func (s Set) Enabled() bool { return len(s.ids) > 0 }
