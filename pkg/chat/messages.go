package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a single displayed conversation turn. Content may grow while the
// turn is streaming; once Completed is set the message is never mutated again
// and a new Message is created for the next turn.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Completed bool      `json:"completed"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleError     = "error"
	RoleTool      = "tool"
)

// TypeMessage tags ordinary conversation turns.
const TypeMessage = "message"

func newMessage(role, content, sender string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
		Type:      TypeMessage,
	}
}

func NewUserMessage(content, sender string) Message {
	msg := newMessage(RoleUser, strings.TrimSpace(content), sender)
	msg.Completed = true
	return msg
}

// NewAssistantMessage creates an open (still-streaming) assistant message.
func NewAssistantMessage(sender string) Message {
	return newMessage(RoleAssistant, "", sender)
}

func NewSystemMessage(content string) Message {
	msg := newMessage(RoleSystem, content, "")
	msg.Completed = true
	return msg
}

func NewErrorMessage(content string) Message {
	msg := newMessage(RoleError, content, "")
	msg.Completed = true
	return msg
}

func (m Message) IsUser() bool      { return m.Role == RoleUser }
func (m Message) IsAssistant() bool { return m.Role == RoleAssistant }
func (m Message) IsSystem() bool    { return m.Role == RoleSystem }
func (m Message) IsError() bool     { return m.Role == RoleError }

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// WithContent returns a copy carrying the same identity with updated body.
// Completed messages are returned unchanged.
func (m Message) WithContent(content string) Message {
	if m.Completed {
		return m
	}
	m.Content = content
	return m
}

// Complete marks the message as settled. Further WithContent calls are no-ops.
func (m Message) Complete() Message {
	m.Completed = true
	return m
}
