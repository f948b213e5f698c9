package handler

import (
	"log/slog"
	"net/http"

	"saedshub/internal/domain/models"
	"saedshub/internal/domain/services"
	"saedshub/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder creates a new folder
// POST /api/elibrary/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder by ID
// GET /api/elibrary/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder ID is required")
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// UpdateFolder updates a folder's title and/or description
// PATCH /api/elibrary/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder ID is required")
		return
	}

	var req services.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder and its full descendant subtree
// DELETE /api/elibrary/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder ID is required")
		return
	}

	result, err := h.folderService.DeleteFolder(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ListFolderFiles lists the file records of one folder
// GET /api/elibrary/folders/{id}/files
func (h *FolderHandler) ListFolderFiles(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder ID is required")
		return
	}

	files, err := h.folderService.ListFiles(r.Context(), id)
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
