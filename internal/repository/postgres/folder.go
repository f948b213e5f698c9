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

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = "id, title, description, parent_id, sort_order, created_at, updated_at"

func scanFolder(row pgx.Row, folder *models.Folder) error {
	return row.Scan(
		&folder.ID,
		&folder.Title,
		&folder.Description,
		&folder.ParentID,
		&folder.SortOrder,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, description, parent_id, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Folders)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.Title,
		folder.Description,
		folder.ParentID,
		folder.SortOrder,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// CreateBatch inserts many folders in one batch. Rows whose IDs already exist
// are skipped: two concurrent first-requests against an empty collection can
// both attempt the default-structure insert, and the loser must not fail.
func (r *PostgresFolderRepository) CreateBatch(ctx context.Context, folders []models.Folder) error {
	if len(folders) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, description, parent_id, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, r.tables.Folders)

	batch := &pgx.Batch{}
	for _, folder := range folders {
		batch.Queue(query,
			folder.ID,
			folder.Title,
			folder.Description,
			folder.ParentID,
			folder.SortOrder,
			folder.CreatedAt,
			folder.UpdatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range folders {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert folders: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, folderColumns, r.tables.Folders)

	var folder models.Folder
	err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &folder)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update updates a folder's title, description and sort order
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, sort_order = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Title,
		folder.Description,
		folder.SortOrder,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// DeleteByIDs deletes every folder whose ID is in the given set
func (r *PostgresFolderRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1)
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete folders: %w", err)
	}

	return result.RowsAffected(), nil
}

// GetAll retrieves all folders as a flat list
func (r *PostgresFolderRepository) GetAll(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY sort_order ASC, LOWER(title) ASC
	`, folderColumns, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// Count returns the total number of folders
func (r *PostgresFolderRepository) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.Folders)

	var count int64
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}

	return count, nil
}
