package telegram

import (
	"testing"

	"github.com/m3rciful/librarybot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommandsAndAliases(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/categories", commands.Command{Handler: noop, Description: "Категории", Aliases: []string{"cats"}})
	reg.RegisterCommand("/add", commands.Command{Handler: noop, Description: "Добавить", AdminOnly: true})
	reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "Помощь", Hidden: true})
	reg.RegisterCommand("/search", commands.Command{Handler: noop, Description: "Поиск", Aliases: []string{"/cats"}})
	reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "no slash"})
	reg.RegisterCommand("/empty", commands.Command{Handler: noop})

	if got := len(reg.Commands()); got != 4 {
		t.Fatalf("registered %d commands, want 4", got)
	}

	key, _, ok := reg.LookupCommand("cats")
	if !ok || key != "/categories" {
		t.Fatalf("alias cats -> %q, %v", key, ok)
	}
	if _, cmd, ok := reg.LookupCommand("add"); !ok || !cmd.AdminOnly {
		t.Fatal("expected /add to be found as admin-only")
	}
	if _, _, ok := reg.LookupCommand("/missing"); ok {
		t.Fatal("unexpected lookup hit")
	}

	visible := reg.ListCommands(true)
	want := []string{"/categories", "/search"}
	if len(visible) != len(want) {
		t.Fatalf("visible = %v", visible)
	}
	for i, c := range visible {
		if c.Text != want[i] {
			t.Fatalf("visible[%d] = %s, want %s", i, c.Text, want[i])
		}
	}
	if all := reg.ListCommands(false); len(all) != 4 {
		t.Fatalf("all commands = %d", len(all))
	}

	reg.Commands()["/injected"] = commands.Command{}
	if _, _, ok := reg.LookupCommand("/injected"); ok {
		t.Fatal("Commands must return a copy")
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	for _, key := range []string{"dl", "cat", "book"} {
		if err := reg.RegisterCallback(key, noop); err != nil {
			t.Fatalf("register %s: %v", key, err)
		}
	}
	if err := reg.RegisterCallback("cat", noop); err == nil {
		t.Fatal("expected duplicate callback error")
	}
	if err := reg.RegisterCallback("", noop); err == nil {
		t.Fatal("expected invalid callback error")
	}
	got := reg.ListCallbacks()
	want := []string{"book", "cat", "dl"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("callbacks = %v, want %v", got, want)
		}
	}
	if _, ok := reg.GetCallback("dl"); !ok {
		t.Fatal("dl not found")
	}
	if reg.CallbackNotFound() != nil {
		t.Fatal("fresh registry must have no callback fallback")
	}
	reg.SetCallbackNotFound(noop)
	reg.SetCallbackNotFound(nil)
	if reg.CallbackNotFound() == nil {
		t.Fatal("nil must not replace the fallback")
	}
}
