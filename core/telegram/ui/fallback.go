package ui

import (
	tg "github.com/m3rciful/librarybot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// FallbackProvider exposes handlers used when incoming updates
// cannot be mapped to commands, callbacks, or expected documents.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
}

// Install wires the provider's callback and text fallbacks into the registry.
// UnknownDocument is consumed by the text router options instead.
func Install(reg *tg.Registry, p FallbackProvider) {
	if reg == nil || p == nil {
		return
	}
	if h := p.UnknownCallback(); h != nil {
		reg.SetCallbackNotFound(h)
	}
	if h := p.UnknownText(); h != nil {
		reg.SetTextFallback(h)
	}
}
