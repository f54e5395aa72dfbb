package contract

import (
	"context"

	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatTopicRepository interface {
	Create(ctx context.Context, topic *entity.ChatTopic) error
	Update(ctx context.Context, topic *entity.ChatTopic) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTopic, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTopic, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
