package contract

import (
	"context"

	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WhatsAppAccountRepository interface {
	// Upsert overwrites the account row for the user on re-integration.
	Upsert(ctx context.Context, account *entity.WhatsAppAccount) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WhatsAppAccount, error)
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
}
