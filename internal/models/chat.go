package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
// History is optional and holds the turns that preceded Message, oldest first.
type ChatRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history,omitempty"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Response string `json:"response"`
}

const (
	LabelInvalidMessage = "Invalid message format"
	LabelInvalidHistory = "Invalid history format"
	LabelInvalidBody    = "Invalid request body"

	DetailEmptyMessage = "Message must be a non-empty string"
	DetailInvalidJSON  = "Request body must be valid JSON"
)

// Normalize validates the request and trims the message in place.
// maxHistory <= 0 disables the history length check.
func (r *ChatRequest) Normalize(maxHistory int) error {
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		return &ValidationError{Label: LabelInvalidMessage, Details: DetailEmptyMessage}
	}
	r.Message = msg

	if maxHistory > 0 && len(r.History) > maxHistory {
		return &ValidationError{
			Label:   LabelInvalidHistory,
			Details: fmt.Sprintf("History must contain at most %d messages", maxHistory),
		}
	}
	for i, m := range r.History {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return &ValidationError{
				Label:   LabelInvalidHistory,
				Details: fmt.Sprintf("history[%d].role must be %q or %q", i, RoleUser, RoleAssistant),
			}
		}
		if strings.TrimSpace(m.Content) == "" {
			return &ValidationError{
				Label:   LabelInvalidHistory,
				Details: fmt.Sprintf("history[%d].content must be a non-empty string", i),
			}
		}
	}
	return nil
}
