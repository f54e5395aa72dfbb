package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentMetadata struct {
	Id          uuid.UUID
	Title       string
	Description string
	Category    string
	FileName    string
	FileType    string
	ChunkCount  int
	CreatedAt   time.Time
}

// ChunkMetadata is stamped onto every chunk so vector rows can be traced back
// to their document and filtered by category without a join.
type ChunkMetadata struct {
	DocumentId uuid.UUID `json:"document_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Content    string
	Embedding  []float32
	Metadata   ChunkMetadata
	CreatedAt  time.Time
}
