package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"closet-backend/internal/storage"
)

// FilesHandler streams stored image blobs back to clients. It expects to be
// mounted behind http.StripPrefix so the request path is the storage key.
type FilesHandler struct {
	blobs storage.Storage
}

func NewFilesHandler(blobs storage.Storage) *FilesHandler {
	return &FilesHandler{blobs: blobs}
}

func (h *FilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	file, err := h.blobs.Open(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}
