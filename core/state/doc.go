// Package state provides a lightweight FSM/session manager for conversational bots.
// It is domain-agnostic: each bot supplies its own draft type for the data collected
// while a dialogue is in progress.
package state
