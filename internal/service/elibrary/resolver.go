package elibrary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"saedshub/internal/domain"
	"saedshub/internal/domain/models"
	"saedshub/internal/domain/repositories"
	"saedshub/internal/domain/services"
)

// Resolver strategy names, reported in the resolution for observability
const (
	StrategyDirectURL      = "direct_url"
	StrategyIndexedLookup  = "indexed_lookup"
	StrategyTitleLookup    = "title_lookup"
	StrategyEnsureFromBook = "ensure_from_book"
)

// strategy is one step of the fallback chain. A nil, nil return means
// "no match here, try the next one".
type strategy struct {
	name    string
	resolve func(ctx context.Context, book *models.Book) (*services.Resolution, error)
}

// fileResolver reconciles two loosely-synchronized admin workflows: direct
// PDF attachment on books, and e-library folder uploads. Rather than a strict
// join at write time, resolution walks an ordered strategy chain lazily.
type fileResolver struct {
	bookRepo   repositories.BookRepository
	fileRepo   repositories.FileRepository
	logger     *slog.Logger
	strategies []strategy
}

// NewFileResolver creates a new file resolver
func NewFileResolver(
	bookRepo repositories.BookRepository,
	fileRepo repositories.FileRepository,
	logger *slog.Logger,
) services.FileResolver {
	r := &fileResolver{
		bookRepo: bookRepo,
		fileRepo: fileRepo,
		logger:   logger,
	}
	r.strategies = []strategy{
		{StrategyDirectURL, r.directURL},
		{StrategyIndexedLookup, r.indexedLookup},
		{StrategyTitleLookup, r.titleLookup},
		{StrategyEnsureFromBook, r.ensureFromBook},
	}
	return r
}

// Resolve walks the strategy chain for the given book, first match wins.
// Returns domain.ErrNotFound when no strategy produces a usable reference.
func (r *fileResolver) Resolve(ctx context.Context, bookID string) (*services.Resolution, error) {
	book, err := r.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	for _, s := range r.strategies {
		resolution, err := s.resolve(ctx, book)
		if err != nil {
			return nil, fmt.Errorf("resolve %s (%s): %w", bookID, s.name, err)
		}
		if resolution != nil {
			resolution.Strategy = s.name
			r.logger.Debug("book resolved", "book_id", bookID, "strategy", s.name)
			return resolution, nil
		}
	}

	return nil, &domain.NotFoundError{Message: fmt.Sprintf("no file available for book %s", bookID)}
}

// directURL accepts any non-empty direct URL as a PDF resolution. This is
// deliberately permissive so opaque external links (cloud-drive shares that
// don't end in .pdf) keep working; indexed lookups stay strict.
func (r *fileResolver) directURL(_ context.Context, book *models.Book) (*services.Resolution, error) {
	if book.PDFURL == "" {
		return nil, nil
	}
	return &services.Resolution{
		URL:      book.PDFURL,
		FileType: "application/pdf",
		Title:    book.Title,
	}, nil
}

// indexedLookup searches PDF file records by the book's folder and title
func (r *fileResolver) indexedLookup(ctx context.Context, book *models.Book) (*services.Resolution, error) {
	if book.Title == "" && book.FolderID == "" {
		return nil, nil
	}

	search := repositories.PDFSearch{Title: book.Title}
	if book.FolderID != "" {
		search.FolderID = &book.FolderID
	}

	file, err := r.fileRepo.FindLatestPDF(ctx, search)
	if err != nil || file == nil {
		return nil, err
	}
	return resolutionFromFile(file), nil
}

// titleLookup is the broader net: same search with the folder constraint
// dropped. Skipped when the book has no folder, since the indexed lookup
// already ran title-only.
func (r *fileResolver) titleLookup(ctx context.Context, book *models.Book) (*services.Resolution, error) {
	if book.Title == "" || book.FolderID == "" {
		return nil, nil
	}

	file, err := r.fileRepo.FindLatestPDF(ctx, repositories.PDFSearch{Title: book.Title})
	if err != nil || file == nil {
		return nil, err
	}
	return resolutionFromFile(file), nil
}

// ensureFromBook lazily indexes a book's direct URL as a file record
func (r *fileResolver) ensureFromBook(ctx context.Context, book *models.Book) (*services.Resolution, error) {
	if book.PDFURL == "" {
		return nil, nil
	}
	file, err := r.ensureFile(ctx, book)
	if err != nil {
		return nil, err
	}
	return resolutionFromFile(file), nil
}

// EnsureFromBook is the create-if-absent reconciliation step, keyed by exact
// URL: when a record with the book's URL already exists it is returned
// unchanged, otherwise a new one is synthesized and persisted.
func (r *fileResolver) EnsureFromBook(ctx context.Context, bookID string) (*models.File, error) {
	book, err := r.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.PDFURL == "" {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("book %s has no direct file", bookID)}
	}
	return r.ensureFile(ctx, book)
}

func (r *fileResolver) ensureFile(ctx context.Context, book *models.Book) (*models.File, error) {
	existing, err := r.fileRepo.GetByURL(ctx, book.PDFURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	folderID := book.FolderID
	if folderID == "" {
		folderID = "book-" + book.ID
	}
	publicID := ExtractPublicID(book.PDFURL)
	if publicID == "" {
		publicID = "book-" + book.ID
	}

	file := &models.File{
		ID:          uuid.New().String(),
		Title:       book.Title,
		Description: book.Description,
		URL:         book.PDFURL,
		PublicID:    publicID,
		FolderID:    folderID,
		FolderTitle: book.FolderTitle,
		FileType:    "application/pdf",
		CreatedAt:   time.Now(),
	}

	if err := r.fileRepo.Create(ctx, file); err != nil {
		// Lost a create race: the record keyed by this URL now exists
		if errors.Is(err, domain.ErrConflict) {
			if existing, getErr := r.fileRepo.GetByURL(ctx, book.PDFURL); getErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	r.logger.Info("file record ensured from book",
		"book_id", book.ID,
		"file_id", file.ID,
		"public_id", publicID,
	)

	return file, nil
}

func resolutionFromFile(file *models.File) *services.Resolution {
	return &services.Resolution{
		URL:      file.URL,
		FileID:   file.ID,
		FileType: file.FileType,
		Title:    file.Title,
	}
}

// publicIDPattern matches the blob store's "upload/.../<publicID>.<ext>"
// delivery path, with an optional version segment after upload/.
var publicIDPattern = regexp.MustCompile(`/upload/(?:v\d+/)?(.+)\.[A-Za-z0-9]+$`)

// ExtractPublicID parses a delivery URL for the blob store public ID.
// Returns "" when the URL doesn't follow the upload path pattern.
func ExtractPublicID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	m := publicIDPattern.FindStringSubmatch(parsed.Path)
	if m == nil {
		return ""
	}
	return m[1]
}
