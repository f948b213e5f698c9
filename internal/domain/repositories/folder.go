package repositories

import (
	"context"

	"saedshub/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// CreateBatch inserts many folders in one batch. Rows whose IDs already
	// exist are skipped rather than failing the whole batch (seeding races).
	CreateBatch(ctx context.Context, folders []models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// Update updates a folder's title and description
	Update(ctx context.Context, folder *models.Folder) error

	// DeleteByIDs deletes every folder whose ID is in the given set
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)

	// GetAll retrieves all folders as a flat list
	GetAll(ctx context.Context) ([]models.Folder, error)

	// Count returns the total number of folders
	Count(ctx context.Context) (int64, error)
}
