package mapper

import (
	"encoding/json"

	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentMetadataMapper struct{}

func NewDocumentMetadataMapper() *DocumentMetadataMapper {
	return &DocumentMetadataMapper{}
}

func (m *DocumentMetadataMapper) ToEntity(d *model.DocumentMetadata) *entity.DocumentMetadata {
	if d == nil {
		return nil
	}
	return &entity.DocumentMetadata{
		Id:          d.Id,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		FileName:    d.FileName,
		FileType:    d.FileType,
		ChunkCount:  d.ChunkCount,
		CreatedAt:   d.CreatedAt,
	}
}

func (m *DocumentMetadataMapper) ToModel(d *entity.DocumentMetadata) *model.DocumentMetadata {
	if d == nil {
		return nil
	}
	return &model.DocumentMetadata{
		Id:          d.Id,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		FileName:    d.FileName,
		FileType:    d.FileType,
		ChunkCount:  d.ChunkCount,
		CreatedAt:   d.CreatedAt,
	}
}

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}
	var meta entity.ChunkMetadata
	if len(c.Metadata) > 0 {
		// Malformed metadata is tolerated; the document_id column is canonical.
		_ = json.Unmarshal(c.Metadata, &meta)
	}
	return &entity.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		Metadata:   meta,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}
	metaJson, _ := json.Marshal(c.Metadata)
	return &model.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		Metadata:   datatypes.JSON(metaJson),
		CreatedAt:  c.CreatedAt,
	}
}
