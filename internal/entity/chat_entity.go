package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Title         string
	CreatedAt     time.Time
	LastMessageAt time.Time
}

// ChatMessage holds one full exchange: the user message and the model reply.
// Rows are immutable once written.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	UserMessage   string
	AiResponse    string
	CreatedAt     time.Time
}

type ChatTopic struct {
	Id           uuid.UUID
	Title        string
	Description  string
	Icon         string
	Category     string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
