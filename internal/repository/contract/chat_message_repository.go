package contract

import (
	"context"
	"time"

	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

// DailyMessageCount is one bucket of the admin analytics histogram.
type DailyMessageCount struct {
	Day   time.Time
	Count int64
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountPerDay(ctx context.Context, since time.Time) ([]DailyMessageCount, error)
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
}
