package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadDocumentRequest carries the multipart form fields next to the file.
type UploadDocumentRequest struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"omitempty,max=1000"`
	Category    string `form:"category" validate:"omitempty,max=100"`
}

type DocumentResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
