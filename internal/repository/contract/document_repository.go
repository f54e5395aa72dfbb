package contract

import (
	"context"

	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentMetadataRepository interface {
	Create(ctx context.Context, doc *entity.DocumentMetadata) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentMetadata, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentMetadata, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	UpdateChunkCount(ctx context.Context, id uuid.UUID, count int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScoredDocumentChunk pairs a chunk with its cosine similarity to the query.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	// SearchSimilar runs a nearest-neighbor search over chunk embeddings.
	// An empty category matches all chunks.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, category string) ([]*ScoredDocumentChunk, error)
	CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
}
