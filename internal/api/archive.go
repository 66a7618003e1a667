package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/JaimeStill/newsqual/internal/export"
	"github.com/JaimeStill/newsqual/pkg/handlers"
	"github.com/JaimeStill/newsqual/pkg/routes"
	"github.com/JaimeStill/newsqual/pkg/storage"
)

// archiveHandler exposes the archived uploads and exports for browsing.
type archiveHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newArchiveHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *archiveHandler {
	return &archiveHandler{
		store:       store,
		logger:      logger.With("handler", "archive"),
		maxListSize: maxListSize,
	}
}

func (h *archiveHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/archive",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/{key...}", Handler: h.download},
		},
	}
}

func (h *archiveHandler) list(w http.ResponseWriter, r *http.Request) {
	maxResults, err := storage.ParseMaxResults(
		r.URL.Query().Get("max_results"),
		h.maxListSize,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	blobs, err := h.store.List(r.Context(), r.URL.Query().Get("prefix"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	if blobs == nil {
		blobs = []storage.BlobInfo{}
	}

	handlers.RespondJSON(w, http.StatusOK, blobs)
}

func (h *archiveHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType(key))
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("archive download interrupted", "key", key, "error", err)
	}
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".xlsx":
		return export.ContentType
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}
