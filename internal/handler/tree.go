package handler

import (
	"log/slog"
	"net/http"

	"saedshub/internal/domain/services"
	"saedshub/internal/httputil"
)

// TreeHandler handles HTTP requests for the folder tree
type TreeHandler struct {
	treeService services.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the nested folder tree, seeding the default structure
// first when the library is empty
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.treeService.GetTree(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"folders": tree,
	})
}

// HealthCheck reports service liveness
func (h *TreeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
