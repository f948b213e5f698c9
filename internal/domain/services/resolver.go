package services

import (
	"context"

	"saedshub/internal/domain/models"
)

// Resolution is the outcome of resolving a book to a stored PDF reference.
// FileID is empty when the resolution came straight from the book's direct URL.
type Resolution struct {
	URL      string `json:"url"`
	FileID   string `json:"file_id,omitempty"`
	FileType string `json:"file_type"`
	Title    string `json:"title"`
	Strategy string `json:"strategy"`
}

// FileResolver resolves a book to the best-matching stored PDF through an
// ordered chain of lookup strategies. Returns domain.ErrNotFound when no
// strategy produces a usable reference.
type FileResolver interface {
	Resolve(ctx context.Context, bookID string) (*Resolution, error)

	// EnsureFromBook runs the create-if-absent reconciliation step alone:
	// the book's direct URL is indexed as a file record keyed by exact URL.
	EnsureFromBook(ctx context.Context, bookID string) (*models.File, error)
}
