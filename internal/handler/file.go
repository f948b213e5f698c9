package handler

import (
	"log/slog"
	"net/http"

	"saedshub/internal/blobstore"
	"saedshub/internal/domain/models"
	"saedshub/internal/domain/services"
	"saedshub/internal/httputil"
)

// FileHandler handles e-library file record HTTP requests
type FileHandler struct {
	fileService services.FileService
	downloader  downloader
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, blobs blobstore.BlobStore, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		downloader:  downloader{blobs: blobs, logger: logger},
		logger:      logger,
	}
}

// CreateFile indexes an uploaded blob as a file record
// POST /api/elibrary/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := h.fileService.CreateFile(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// ListFiles lists every file record, newest first
// GET /api/elibrary/files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.fileService.ListFiles(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	if files == nil {
		files = []models.File{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"files": files,
	})
}

// DeleteFile deletes a file record and, best-effort, its blob
// DELETE /api/elibrary/files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file ID is required")
		return
	}

	if err := h.fileService.DeleteFile(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DownloadFile streams a file record's bytes through the server
// GET /api/elibrary/files/{id}/download
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file ID is required")
		return
	}

	file, err := h.fileService.GetFile(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	h.downloader.stream(w, r, file.URL, file.Title, "application/octet-stream")
}
