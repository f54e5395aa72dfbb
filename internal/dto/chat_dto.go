package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=50"`
}

type CreateSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Message       string    `json:"message" validate:"required,max=4000"`
	Category      string    `json:"category" validate:"omitempty,max=100"`
}

type SourceDTO struct {
	DocumentId uuid.UUID `json:"document_id"`
	Title      string    `json:"title"`
	Snippet    string    `json:"snippet"`
	Similarity float64   `json:"similarity"`
}

type SendChatResponse struct {
	Response string      `json:"response"`
	Sources  []SourceDTO `json:"sources,omitempty"`
}

type ChatSessionResponse struct {
	Id            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

type ChatHistoryEntryResponse struct {
	Id          uuid.UUID `json:"id"`
	UserMessage string    `json:"user_message"`
	AiResponse  string    `json:"ai_response"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateTopicRequest struct {
	Title        string `json:"title" validate:"required,max=100"`
	Description  string `json:"description" validate:"omitempty,max=500"`
	Icon         string `json:"icon" validate:"omitempty,max=100"`
	Category     string `json:"category" validate:"omitempty,max=100"`
	DisplayOrder int    `json:"display_order" validate:"omitempty,min=0"`
}

type UpdateTopicRequest struct {
	Title        string `json:"title" validate:"omitempty,max=100"`
	Description  string `json:"description" validate:"omitempty,max=500"`
	Icon         string `json:"icon" validate:"omitempty,max=100"`
	Category     string `json:"category" validate:"omitempty,max=100"`
	DisplayOrder *int   `json:"display_order" validate:"omitempty,min=0"`
}

type TopicResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Category     string    `json:"category"`
	DisplayOrder int       `json:"display_order"`
}

type DailyCountDTO struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type AnalyticsResponse struct {
	TotalUsers     int64           `json:"total_users"`
	TotalSessions  int64           `json:"total_sessions"`
	TotalMessages  int64           `json:"total_messages"`
	MessagesPerDay []DailyCountDTO `json:"messages_per_day"`
}
