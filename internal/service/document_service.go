package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/repository/specification"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/pkg/document"
	"mindful-ai-be/pkg/embedding"
	"mindful-ai-be/pkg/events"
	pkgNats "mindful-ai-be/pkg/nats"
	"mindful-ai-be/pkg/utils"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, req *dto.UploadDocumentRequest, fileName string, filePath string) (*dto.DocumentResponse, error)
	List(ctx context.Context) ([]*dto.DocumentResponse, error)
	ListByCategory(ctx context.Context, category string) ([]*dto.DocumentResponse, error)
	Categories(ctx context.Context) (*dto.CategoriesResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	embedder       embedding.EmbeddingProvider
	eventPublisher *pkgNats.Publisher
	chunkSize      int
	chunkOverlap   int
	logger         logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	eventPublisher *pkgNats.Publisher,
	chunkSize int,
	chunkOverlap int,
	logger logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		embedder:       embedder,
		eventPublisher: eventPublisher,
		chunkSize:      chunkSize,
		chunkOverlap:   chunkOverlap,
		logger:         logger,
	}
}

// Upload ingests one file into the knowledge base: extract, split, embed,
// persist. The metadata row is written first so its id can be stamped into
// every chunk. The temp file is removed once extraction finishes, whatever
// happens afterwards.
func (s *documentService) Upload(ctx context.Context, req *dto.UploadDocumentRequest, fileName string, filePath string) (*dto.DocumentResponse, error) {
	data, err := os.ReadFile(filePath)
	removeErr := os.Remove(filePath)
	if removeErr != nil {
		s.logger.Warn("document.service", "temp file cleanup failed", map[string]interface{}{
			"path":  filePath,
			"error": removeErr.Error(),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	text, err := document.Extract(fileName, data)
	if err != nil {
		return nil, err
	}

	chunks := utils.SplitText(text, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document produced no text chunks")
	}

	meta := &entity.DocumentMetadata{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		FileName:    fileName,
		FileType:    strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."),
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentMetadataRepository().Create(ctx, meta); err != nil {
		return nil, err
	}

	chunkMeta := entity.ChunkMetadata{
		DocumentId: meta.Id,
		Title:      meta.Title,
		Category:   meta.Category,
		FileName:   meta.FileName,
		UploadedAt: meta.CreatedAt,
	}

	chunkEntities := make([]*entity.DocumentChunk, 0, len(chunks))
	for _, content := range chunks {
		resp, err := s.embedder.Generate(content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, fmt.Errorf("embed chunk: %w", err)
		}
		chunkEntities = append(chunkEntities, &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: meta.Id,
			Content:    content,
			Embedding:  resp.Embedding.Values,
			Metadata:   chunkMeta,
			CreatedAt:  time.Now(),
		})
	}

	if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunkEntities); err != nil {
		return nil, err
	}

	// Count recorded only after the chunks actually landed; a failed embed or
	// insert above leaves the row at zero.
	if err := uow.DocumentMetadataRepository().UpdateChunkCount(ctx, meta.Id, len(chunkEntities)); err != nil {
		return nil, err
	}
	meta.ChunkCount = len(chunkEntities)

	s.publishEvent(ctx, events.NewDocumentIngested(meta.Id.String(), meta.Title, len(chunkEntities)))

	s.logger.Info("document.service", "document ingested", map[string]interface{}{
		"document_id": meta.Id.String(),
		"chunks":      len(chunkEntities),
	})
	return documentToResponse(meta), nil
}

func (s *documentService) List(ctx context.Context) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentMetadataRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return documentsToResponses(docs), nil
}

func (s *documentService) ListByCategory(ctx context.Context, category string) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentMetadataRepository().FindAll(ctx,
		specification.ByCategory{Category: category},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return documentsToResponses(docs), nil
}

func (s *documentService) Categories(ctx context.Context) (*dto.CategoriesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	categories, err := uow.DocumentMetadataRepository().DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CategoriesResponse{Categories: categories}, nil
}

// Delete removes the chunks first, then the metadata row, in one transaction.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	meta, err := uow.DocumentMetadataRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if meta == nil {
		return ErrNotFound
	}

	chunkCount, err := uow.DocumentChunkRepository().CountByDocumentId(ctx, id)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentMetadataRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewDocumentDeleted(id.String(), int(chunkCount)))
	return nil
}

func (s *documentService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("document.service", "event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func documentToResponse(m *entity.DocumentMetadata) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:          m.Id,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		FileName:    m.FileName,
		FileType:    m.FileType,
		ChunkCount:  m.ChunkCount,
		CreatedAt:   m.CreatedAt,
	}
}

func documentsToResponses(docs []*entity.DocumentMetadata) []*dto.DocumentResponse {
	responses := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, documentToResponse(d))
	}
	return responses
}
