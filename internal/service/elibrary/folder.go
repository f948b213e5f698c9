package elibrary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"saedshub/internal/blobstore"
	"saedshub/internal/domain"
	"saedshub/internal/domain/models"
	"saedshub/internal/domain/repositories"
	"saedshub/internal/domain/services"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	blobs      blobstore.BlobStore
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	blobs blobstore.BlobStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobs:      blobs,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new folder. A parent, when given, must already
// exist: that is what keeps the parent graph acyclic by construction.
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := validateCreateFolder(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if req.ParentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now()
	folder := &models.Folder{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		ParentID:    req.ParentID,
		SortOrder:   req.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "folder_id", folder.ID, "title", folder.Title)

	return folder, nil
}

// GetFolder retrieves a folder by ID
func (s *folderService) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id)
}

// UpdateFolder updates a folder's title, description and/or sort order
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := validateUpdateFolder(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		folder.Title = *req.Title
	}
	if req.Description != nil {
		folder.Description = *req.Description
	}
	if req.Order != nil {
		folder.SortOrder = *req.Order
	}
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	return folder, nil
}

// DeleteFolder deletes a folder together with its full descendant subtree and
// every file record in that subtree. Blob deletions happen first and are
// best-effort: a failed destroy is logged and may leak an orphaned blob, but
// the index rows are always removed so the admin never sees a dangling record.
func (s *folderService) DeleteFolder(ctx context.Context, id string) (*services.DeleteFolderResult, error) {
	if _, err := s.folderRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	all, err := s.folderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	descendants := CollectDescendants(all, id)
	folderIDs := make([]string, 0, len(descendants))
	for folderID := range descendants {
		folderIDs = append(folderIDs, folderID)
	}

	files, err := s.fileRepo.ListByFolderIDs(ctx, folderIDs)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if file.PublicID == "" {
			continue
		}
		if err := s.blobs.Destroy(ctx, file.PublicID); err != nil {
			s.logger.Warn("blob destroy failed during cascade",
				"file_id", file.ID,
				"public_id", file.PublicID,
				"error", err,
			)
		}
	}

	result := &services.DeleteFolderResult{}
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		deletedFiles, err := s.fileRepo.DeleteByFolderIDs(txCtx, folderIDs)
		if err != nil {
			return err
		}
		deletedFolders, err := s.folderRepo.DeleteByIDs(txCtx, folderIDs)
		if err != nil {
			return err
		}
		result.DeletedFiles = deletedFiles
		result.DeletedFolders = deletedFolders
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder subtree deleted",
		"folder_id", id,
		"deleted_folders", result.DeletedFolders,
		"deleted_files", result.DeletedFiles,
	)

	return result, nil
}

// ListFiles lists the file records of one folder
func (s *folderService) ListFiles(ctx context.Context, folderID string) ([]models.File, error) {
	return s.fileRepo.ListByFolder(ctx, folderID)
}

func validateCreateFolder(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.ID, validation.Length(0, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Order, validation.Min(0)),
	)
}

func validateUpdateFolder(req *services.UpdateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
	)
}
