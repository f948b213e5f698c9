package services

import (
	"context"

	"saedshub/internal/domain/models"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder by ID
	GetFolder(ctx context.Context, id string) (*models.Folder, error)

	// UpdateFolder updates a folder's title and/or description
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder together with its full descendant subtree
	// and every file record in that subtree. Blob deletions are best-effort.
	DeleteFolder(ctx context.Context, id string) (*DeleteFolderResult, error)

	// ListFiles lists the file records of one folder
	ListFiles(ctx context.Context, folderID string) ([]models.File, error)
}

// CreateFolderRequest represents a folder creation request. ID is optional:
// clients may supply a stable slug, otherwise one is generated.
type CreateFolderRequest struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
	Order       int     `json:"order,omitempty"`
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

// DeleteFolderResult reports the blast radius of a cascading folder delete
type DeleteFolderResult struct {
	DeletedFolders int64 `json:"deleted_folders"`
	DeletedFiles   int64 `json:"deleted_files"`
}
