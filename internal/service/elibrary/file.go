package elibrary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"saedshub/internal/blobstore"
	"saedshub/internal/domain"
	"saedshub/internal/domain/models"
	"saedshub/internal/domain/repositories"
	"saedshub/internal/domain/services"
)

type fileService struct {
	fileRepo   repositories.FileRepository
	folderRepo repositories.FolderRepository
	blobs      blobstore.BlobStore
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	blobs blobstore.BlobStore,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		blobs:      blobs,
		logger:     logger,
	}
}

// CreateFile indexes an uploaded blob as a file record. The folder title is
// denormalized at creation time; a dangling folder ID is tolerated and the
// record is simply left uncategorized.
func (s *fileService) CreateFile(ctx context.Context, req *services.CreateFileRequest) (*models.File, error) {
	if err := validateCreateFile(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var folderTitle string
	if folder, err := s.folderRepo.GetByID(ctx, req.FolderID); err == nil {
		folderTitle = folder.Title
	}

	file := &models.File{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		PublicID:    req.PublicID,
		FolderID:    req.FolderID,
		FolderTitle: folderTitle,
		FileType:    req.FileType,
		CreatedAt:   time.Now(),
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file indexed", "file_id", file.ID, "folder_id", file.FolderID)

	return file, nil
}

// GetFile retrieves a file record by ID
func (s *fileService) GetFile(ctx context.Context, id string) (*models.File, error) {
	return s.fileRepo.GetByID(ctx, id)
}

// ListFiles lists every file record, newest first
func (s *fileService) ListFiles(ctx context.Context) ([]models.File, error) {
	return s.fileRepo.ListAll(ctx)
}

// DeleteFile deletes a file record and, best-effort, its blob. The index row
// is removed even when the blob destroy fails.
func (s *fileService) DeleteFile(ctx context.Context, id string) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if file.PublicID != "" {
		if err := s.blobs.Destroy(ctx, file.PublicID); err != nil {
			s.logger.Warn("blob destroy failed",
				"file_id", file.ID,
				"public_id", file.PublicID,
				"error", err,
			)
		}
	}

	return s.fileRepo.Delete(ctx, id)
}

func validateCreateFile(req *services.CreateFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&req.URL, validation.Required, is.URL),
		validation.Field(&req.FolderID, validation.Required),
		validation.Field(&req.Description, validation.Length(0, 2000)),
	)
}
