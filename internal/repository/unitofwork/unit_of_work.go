package unitofwork

import (
	"context"

	"mindful-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatTopicRepository() contract.ChatTopicRepository
	DocumentMetadataRepository() contract.DocumentMetadataRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	WhatsAppAccountRepository() contract.WhatsAppAccountRepository
}
