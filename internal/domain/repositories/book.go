package repositories

import (
	"context"

	"saedshub/internal/domain/models"
)

// BookRepository defines the read/update surface the resolver and download
// counters need. Book lifecycle is owned by the catalog admin workflows.
type BookRepository interface {
	// GetByID retrieves a book by ID
	GetByID(ctx context.Context, id string) (*models.Book, error)

	// IncrementDownloadCount bumps the book's download counter by one
	IncrementDownloadCount(ctx context.Context, id string) error

	// IncrementMemberDownload bumps the per-member counter for a book
	IncrementMemberDownload(ctx context.Context, bookID, memberID string) error
}
