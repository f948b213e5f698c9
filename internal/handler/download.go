package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"saedshub/internal/blobstore"
	"saedshub/internal/httputil"
)

// downloader relays origin bytes to the caller through the server process
// rather than redirecting. Shared by the book and file download endpoints.
type downloader struct {
	blobs  blobstore.BlobStore
	logger *slog.Logger
}

// stream fetches rawURL from the blob store and relays it chunk by chunk.
// A non-success origin status becomes 502, distinct from the 404 the caller
// produces when no reference resolves at all. Counters are never touched
// here; the count endpoint is an independent operation.
func (d *downloader) stream(w http.ResponseWriter, r *http.Request, rawURL, title, fallbackType string) {
	result, err := d.blobs.Fetch(r.Context(), rawURL)
	if err != nil {
		d.logger.Error("origin fetch failed", "url", rawURL, "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "failed to fetch file from storage")
		return
	}
	defer func() { _ = result.Body.Close() }()

	if result.StatusCode < 200 || result.StatusCode > 299 {
		d.logger.Warn("origin refused fetch", "url", rawURL, "status", result.StatusCode)
		httputil.RespondError(w, http.StatusBadGateway, "failed to fetch file from storage")
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = fallbackType
	}
	w.Header().Set("Content-Type", contentType)
	if result.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", attachmentFilename(title, rawURL)))

	// Relay without buffering. A mid-stream write error just means the
	// client went away; terminate this one response quietly.
	if _, err := io.Copy(w, result.Body); err != nil {
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			d.logger.Debug("download relay interrupted", "url", rawURL, "error", err)
		}
	}
}

// attachmentFilename derives a safe filename from the logical title, with
// the extension taken from the origin URL's path (default .pdf).
func attachmentFilename(title, rawURL string) string {
	name := sanitizeFilename(title)
	if name == "" {
		name = "download"
	}

	ext := ".pdf"
	if parsed, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(parsed.Path); e != "" {
			ext = e
		}
	}

	return name + ext
}

// sanitizeFilename strips characters outside [A-Za-z0-9.-_ ]
func sanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_' || r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
