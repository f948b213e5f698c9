package handler

import (
	"log/slog"
	"net/http"

	"saedshub/internal/blobstore"
	"saedshub/internal/domain/services"
	"saedshub/internal/httputil"
)

// BookHandler handles book file resolution, download proxying and counters
type BookHandler struct {
	resolver    services.FileResolver
	bookService services.BookService
	downloader  downloader
	logger      *slog.Logger
}

// NewBookHandler creates a new book handler
func NewBookHandler(
	resolver services.FileResolver,
	bookService services.BookService,
	blobs blobstore.BlobStore,
	logger *slog.Logger,
) *BookHandler {
	return &BookHandler{
		resolver:    resolver,
		bookService: bookService,
		downloader:  downloader{blobs: blobs, logger: logger},
		logger:      logger,
	}
}

// GetBookFile resolves a book to its best-matching stored file
// GET /api/books/{id}/file
func (h *BookHandler) GetBookFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "book ID is required")
		return
	}

	resolution, err := h.resolver.Resolve(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resolution)
}

// DownloadBook resolves a book and streams the file bytes through the server
// GET /api/books/{id}/download
func (h *BookHandler) DownloadBook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "book ID is required")
		return
	}

	resolution, err := h.resolver.Resolve(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	h.downloader.stream(w, r, resolution.URL, resolution.Title, "application/pdf")
}

// IncrementDownloadCount bumps the book's download counter. Called by the
// frontend on click, before the download itself - whether the subsequent
// stream completes is deliberately not this endpoint's concern.
// POST /api/books/{id}/download-count
func (h *BookHandler) IncrementDownloadCount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "book ID is required")
		return
	}

	memberID := httputil.GetMemberID(r)
	if err := h.bookService.IncrementDownload(r.Context(), id, memberID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "counted"})
}
