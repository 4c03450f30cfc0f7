// Package chat holds the client-side conversation state machine.
//
// State values are immutable from the caller's point of view: every
// transition returns a new State and never mutates the slice it was given.
package chat

import (
	"strings"

	"friday-chat/internal/models"
)

// FallbackText is appended as an assistant message when a send fails.
const FallbackText = "Sorry, I encountered an error. Please try again."

// State is the conversation as the client sees it.
type State struct {
	Messages []models.Message
	Loading  bool
}

// Submit appends the trimmed input as a user message and marks the state as
// loading. It returns ok=false and the unchanged state when the input is blank
// or a send is already in flight.
func Submit(s State, input string) (State, string, bool) {
	text := strings.TrimSpace(input)
	if text == "" || s.Loading {
		return s, "", false
	}
	return State{
		Messages: appendMessage(s.Messages, models.Message{Role: models.RoleUser, Content: text}),
		Loading:  true,
	}, text, true
}

// Receive appends the assistant reply and clears the loading flag.
func Receive(s State, reply string) State {
	return State{
		Messages: appendMessage(s.Messages, models.Message{Role: models.RoleAssistant, Content: reply}),
	}
}

// Fail appends the fallback notice and clears the loading flag.
func Fail(s State) State {
	return State{
		Messages: appendMessage(s.Messages, models.Message{Role: models.RoleAssistant, Content: FallbackText}),
	}
}

// Clear empties the history. The loading flag is kept so that a send still
// in flight cannot be doubled up; its reply lands in the new history.
func Clear(s State) State {
	return State{Loading: s.Loading}
}

// IsFallback reports whether m is a fallback notice rather than a reply.
func IsFallback(m models.Message) bool {
	return m.Role == models.RoleAssistant && m.Content == FallbackText
}

// History returns at most max of the most recent messages, oldest first,
// without fallback notices. max <= 0 returns nil.
func History(messages []models.Message, max int) []models.Message {
	if max <= 0 {
		return nil
	}
	var out []models.Message
	for _, m := range messages {
		if IsFallback(m) {
			continue
		}
		out = append(out, m)
	}
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}

func appendMessage(msgs []models.Message, m models.Message) []models.Message {
	out := make([]models.Message, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, m)
}
