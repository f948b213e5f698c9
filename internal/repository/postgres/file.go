package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"saedshub/internal/domain"
	"saedshub/internal/domain/models"
	"saedshub/internal/domain/repositories"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const fileColumns = "id, title, description, url, public_id, folder_id, folder_title, file_type, created_at"

func scanFile(row pgx.Row, file *models.File) error {
	return row.Scan(
		&file.ID,
		&file.Title,
		&file.Description,
		&file.URL,
		&file.PublicID,
		&file.FolderID,
		&file.FolderTitle,
		&file.FileType,
		&file.CreatedAt,
	)
}

// Create creates a new file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, description, url, public_id, folder_id, folder_title, file_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Files)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.ID,
		file.Title,
		file.Description,
		file.URL,
		file.PublicID,
		file.FolderID,
		file.FolderTitle,
		file.FileType,
		file.CreatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("file '%s': %w", file.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file record by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, fileColumns, r.tables.Files)

	var file models.File
	err := scanFile(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &file)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// GetByURL retrieves a file record by exact URL match, nil when absent
func (r *PostgresFileRepository) GetByURL(ctx context.Context, url string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE url = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, fileColumns, r.tables.Files)

	var file models.File
	err := scanFile(GetExecutor(ctx, r.pool).QueryRow(ctx, query, url), &file)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get file by url: %w", err)
	}

	return &file, nil
}

// FindLatestPDF returns the most recently created record matching the search,
// or nil when nothing matches. Title matches as a case-insensitive substring;
// the PDF filter accepts file_type containing "pdf" or a URL path ending in
// .pdf, optionally followed by a query string.
func (r *PostgresFileRepository) FindLatestPDF(ctx context.Context, search repositories.PDFSearch) (*models.File, error) {
	where := `title ILIKE '%' || $1 || '%' AND (file_type ILIKE '%pdf%' OR url ~* '\.pdf(\?.*)?$')`
	args := []interface{}{search.Title}

	if search.FolderID != nil {
		where += " AND folder_id = $2"
		args = append(args, *search.FolderID)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY created_at DESC
		LIMIT 1
	`, fileColumns, r.tables.Files, where)

	var file models.File
	err := scanFile(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...), &file)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // No match, caller falls through to the next strategy
		}
		return nil, fmt.Errorf("find pdf: %w", err)
	}

	return &file, nil
}

// ListByFolder lists the file records of one folder, newest first
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = $1
		ORDER BY created_at DESC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query, folderID)
}

// ListAll lists every file record, newest first
func (r *PostgresFileRepository) ListAll(ctx context.Context) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query)
}

// ListByFolderIDs lists file records whose folder_id is in the given set
func (r *PostgresFileRepository) ListByFolderIDs(ctx context.Context, folderIDs []string) ([]models.File, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = ANY($1)
		ORDER BY created_at DESC
	`, fileColumns, r.tables.Files)

	return r.queryFiles(ctx, query, folderIDs)
}

// Delete deletes a file record by ID
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByFolderIDs deletes every file record owned by the given folders
func (r *PostgresFileRepository) DeleteByFolderIDs(ctx context.Context, folderIDs []string) (int64, error) {
	if len(folderIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE folder_id = ANY($1)
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderIDs)
	if err != nil {
		return 0, fmt.Errorf("delete files by folder: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *PostgresFileRepository) queryFiles(ctx context.Context, query string, args ...interface{}) ([]models.File, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		if err := scanFile(rows, &file); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
