package repositories

import (
	"context"

	"saedshub/internal/domain/models"
)

// PDFSearch describes a filtered lookup for PDF file records.
// Title is matched as a case-insensitive substring. When FolderID is nil the
// search spans all folders. Matches must look like PDFs: file_type contains
// "pdf" (case-insensitive) or the URL path ends in .pdf (query string allowed).
type PDFSearch struct {
	FolderID *string
	Title    string
}

// FileRepository defines data access operations for file records
type FileRepository interface {
	// Create creates a new file record
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves a file record by ID
	GetByID(ctx context.Context, id string) (*models.File, error)

	// GetByURL retrieves a file record by exact URL match, nil when absent
	GetByURL(ctx context.Context, url string) (*models.File, error)

	// FindLatestPDF returns the most recently created record matching the
	// search, or nil when nothing matches.
	FindLatestPDF(ctx context.Context, search PDFSearch) (*models.File, error)

	// ListByFolder lists the file records of one folder, newest first
	ListByFolder(ctx context.Context, folderID string) ([]models.File, error)

	// ListAll lists every file record, newest first
	ListAll(ctx context.Context) ([]models.File, error)

	// ListByFolderIDs lists file records whose folder_id is in the given set
	ListByFolderIDs(ctx context.Context, folderIDs []string) ([]models.File, error)

	// Delete deletes a file record by ID
	Delete(ctx context.Context, id string) error

	// DeleteByFolderIDs deletes every file record owned by the given folders
	DeleteByFolderIDs(ctx context.Context, folderIDs []string) (int64, error)
}
