package state

import "testing"

type draft struct {
	Title string
	Count int
}

const (
	stateAsk  State = "ask"
	stateNext State = "next"
)

func TestMemoryManagerDefaultsToIdle(t *testing.T) {
	m := NewMemoryManager[draft]()
	sess := m.Get(1)
	if sess.State != StateIdle {
		t.Fatalf("state = %q, want idle", sess.State)
	}
	if m.InProgress(1) {
		t.Fatal("idle user reported in progress")
	}
	if m.Len() != 0 {
		t.Fatalf("Get must not create sessions, len = %d", m.Len())
	}
}

func TestMemoryManagerResetDiscardsDraft(t *testing.T) {
	m := NewMemoryManager[draft]()
	m.Reset(7, stateAsk)
	m.UpdateDraft(7, func(d *draft) { d.Title = "pending" })
	m.SetState(7, stateNext)

	sess := m.Get(7)
	if sess.State != stateNext || sess.Draft.Title != "pending" {
		t.Fatalf("unexpected session %+v", sess)
	}

	m.Reset(7, stateAsk)
	sess = m.Get(7)
	if sess.State != stateAsk || sess.Draft.Title != "" {
		t.Fatalf("reset kept stale data: %+v", sess)
	}
}

func TestMemoryManagerGetReturnsCopy(t *testing.T) {
	m := NewMemoryManager[draft]()
	m.Reset(3, stateAsk)
	sess := m.Get(3)
	sess.Draft.Count = 42
	if got := m.Get(3).Draft.Count; got != 0 {
		t.Fatalf("mutating copy leaked into manager: %d", got)
	}
}

func TestMemoryManagerUpdateDraftIgnoresIdleUsers(t *testing.T) {
	m := NewMemoryManager[draft]()
	m.UpdateDraft(9, func(d *draft) { d.Count++ })
	if m.Len() != 0 {
		t.Fatal("UpdateDraft created a session for an idle user")
	}
}

func TestMemoryManagerClear(t *testing.T) {
	m := NewMemoryManager[draft]()
	m.Reset(5, stateAsk)
	m.Clear(5)
	if m.InProgress(5) || m.GetState(5) != StateIdle {
		t.Fatal("session survived Clear")
	}
	m.Reset(5, StateIdle)
	if m.Len() != 0 {
		t.Fatal("Reset to idle must not keep a session")
	}
}
