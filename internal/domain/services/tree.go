package services

import (
	"context"

	"saedshub/internal/domain/models"
)

// TreeService answers the "give me the full nested tree" query. Reading the
// tree seeds the default folder structure as a side effect when the folder
// collection is empty; seeding failures never surface to the caller.
type TreeService interface {
	GetTree(ctx context.Context) ([]*models.FolderNode, error)
}
