package services

import (
	"context"
)

// BookService carries the counter side of the download flow. Counting is
// optimistic: the frontend calls the count endpoint on click, independent of
// whether the subsequent stream completes.
type BookService interface {
	// IncrementDownload bumps the book's download counter and, when a member
	// ID is supplied, the per-member counter too.
	IncrementDownload(ctx context.Context, bookID, memberID string) error
}
