package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"saedshub/internal/domain"
	"saedshub/internal/domain/models"
	"saedshub/internal/domain/repositories"
)

// PostgresBookRepository implements the BookRepository interface
type PostgresBookRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBookRepository creates a new book repository
func NewBookRepository(config *RepositoryConfig) repositories.BookRepository {
	return &PostgresBookRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a book by ID
func (r *PostgresBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	query := fmt.Sprintf(`
		SELECT id, title, description, pdf_url, folder_id, folder_title, download_count, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Books)

	var book models.Book
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Description,
		&book.PDFURL,
		&book.FolderID,
		&book.FolderTitle,
		&book.DownloadCount,
		&book.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &book, nil
}

// IncrementDownloadCount bumps the book's download counter by one
func (r *PostgresBookRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET download_count = download_count + 1
		WHERE id = $1
	`, r.tables.Books)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment download count: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// IncrementMemberDownload bumps the per-member counter for a book
func (r *PostgresBookRepository) IncrementMemberDownload(ctx context.Context, bookID, memberID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (member_id, book_id, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (member_id, book_id) DO UPDATE SET count = %s.count + 1
	`, r.tables.MemberDownloads, r.tables.MemberDownloads)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, memberID, bookID); err != nil {
		return fmt.Errorf("increment member download: %w", err)
	}

	return nil
}
