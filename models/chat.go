package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole represents who authored a chat message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ChatThread represents one question-and-answer conversation
type ChatThread struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	Jurisdiction string    `json:"jurisdiction"`
	CreatedAt    time.Time `json:"created_at"`

	Messages []*ChatMessage `json:"messages,omitempty"`
}

// ChatMessage represents a single message within a thread
type ChatMessage struct {
	ID        uuid.UUID   `json:"id"`
	ThreadID  uuid.UUID   `json:"thread_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}
