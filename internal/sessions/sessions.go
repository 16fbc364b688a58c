package sessions

import (
	"context"
	"errors"
	"time"
)

var ErrEmptySessionID = errors.New("session id is required")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a call conversation.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Store keeps conversation history per call, keyed by the telephony call id.
type Store interface {
	Append(ctx context.Context, sessionID string, messages ...Message) error
	History(ctx context.Context, sessionID string) ([]Message, error)
	End(ctx context.Context, sessionID string) error
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, At: time.Now()}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, At: time.Now()}
}
