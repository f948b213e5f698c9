package elibrary

import (
	"context"
	"log/slog"

	"saedshub/internal/domain/repositories"
	"saedshub/internal/domain/services"
)

type bookService struct {
	bookRepo repositories.BookRepository
	logger   *slog.Logger
}

// NewBookService creates a new book service
func NewBookService(bookRepo repositories.BookRepository, logger *slog.Logger) services.BookService {
	return &bookService{
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// IncrementDownload bumps the book's download counter and, when a member ID
// is supplied, the per-member counter. The member counter is best-effort: a
// failure there must not lose the book-level count already taken.
func (s *bookService) IncrementDownload(ctx context.Context, bookID, memberID string) error {
	if err := s.bookRepo.IncrementDownloadCount(ctx, bookID); err != nil {
		return err
	}

	if memberID != "" {
		if err := s.bookRepo.IncrementMemberDownload(ctx, bookID, memberID); err != nil {
			s.logger.Warn("member download counter failed",
				"book_id", bookID,
				"member_id", memberID,
				"error", err,
			)
		}
	}

	return nil
}
