package mapper

import (
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/model"
)

type ChatSessionMapper struct{}

func NewChatSessionMapper() *ChatSessionMapper {
	return &ChatSessionMapper{}
}

func (m *ChatSessionMapper) ToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}
	return &entity.ChatSession{
		Id:            s.Id,
		UserId:        s.UserId,
		Title:         s.Title,
		CreatedAt:     s.CreatedAt,
		LastMessageAt: s.LastMessageAt,
	}
}

func (m *ChatSessionMapper) ToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}
	return &model.ChatSession{
		Id:            s.Id,
		UserId:        s.UserId,
		Title:         s.Title,
		CreatedAt:     s.CreatedAt,
		LastMessageAt: s.LastMessageAt,
	}
}

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		UserMessage:   msg.UserMessage,
		AiResponse:    msg.AiResponse,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		UserMessage:   msg.UserMessage,
		AiResponse:    msg.AiResponse,
		CreatedAt:     msg.CreatedAt,
	}
}

type ChatTopicMapper struct{}

func NewChatTopicMapper() *ChatTopicMapper {
	return &ChatTopicMapper{}
}

func (m *ChatTopicMapper) ToEntity(t *model.ChatTopic) *entity.ChatTopic {
	if t == nil {
		return nil
	}
	return &entity.ChatTopic{
		Id:           t.Id,
		Title:        t.Title,
		Description:  t.Description,
		Icon:         t.Icon,
		Category:     t.Category,
		DisplayOrder: t.DisplayOrder,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (m *ChatTopicMapper) ToModel(t *entity.ChatTopic) *model.ChatTopic {
	if t == nil {
		return nil
	}
	return &model.ChatTopic{
		Id:           t.Id,
		Title:        t.Title,
		Description:  t.Description,
		Icon:         t.Icon,
		Category:     t.Category,
		DisplayOrder: t.DisplayOrder,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
