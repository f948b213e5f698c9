package services

import (
	"context"

	"saedshub/internal/domain/models"
)

// FileService handles e-library file record business logic. The actual blob
// upload happens client-side against the blob store; this service indexes and
// un-indexes the resulting objects.
type FileService interface {
	// CreateFile indexes an uploaded blob as a file record
	CreateFile(ctx context.Context, req *CreateFileRequest) (*models.File, error)

	// GetFile retrieves a file record by ID
	GetFile(ctx context.Context, id string) (*models.File, error)

	// ListFiles lists every file record, newest first
	ListFiles(ctx context.Context) ([]models.File, error)

	// DeleteFile deletes a file record and, best-effort, its blob
	DeleteFile(ctx context.Context, id string) error
}

// CreateFileRequest represents a file index creation request
type CreateFileRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	PublicID    string `json:"public_id,omitempty"`
	FolderID    string `json:"folder_id"`
	FileType    string `json:"file_type,omitempty"`
}
